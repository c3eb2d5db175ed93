package log

import (
	"errors"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(100), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestToLogLevel(t *testing.T) {
	if ToLogLevel("debug") != LevelDebug || ToLogLevel("error") != LevelError {
		t.Error("textual levels not mapped")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an unknown level name")
		}
	}()
	ToLogLevel("verbose")
}

func TestTestLoggerCapture(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	logger.Info("training started",
		OperationKey, OperationFit,
		SamplesKey, 40,
	)
	// LevelInfoではDebugは捨てられる
	logger.Debug("split detail", "threshold", 0.5)

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("captured %d entries, want 1", len(entries))
	}
	if !logger.ContainsMessage("training started") {
		t.Error("message not captured")
	}
	if !logger.ContainsField(OperationKey, OperationFit) {
		t.Errorf("field %s not captured", OperationKey)
	}

	logger.Clear()
	if logger.ContainsMessage("training started") {
		t.Error("Clear should discard captured output")
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	child := logger.With(ModelNameKey, "random_forest")
	child.Info("fit complete")

	if !logger.ContainsField(ModelNameKey, "random_forest") {
		t.Error("derived logger should carry its preset fields")
	}
}

func TestTestLoggerFlattensErrors(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)
	logger.Warn("fallback", "error", errors.New("unknown model type"))

	if !logger.ContainsField("error", "unknown model type") {
		t.Error("error values should serialize as their message")
	}
}

func TestProviderCapture(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	defer SetProvider(nil)

	GetLoggerWithName("automl.trainer").Info("evaluation done", AccuracyKey, 0.9)

	logger := provider.logger
	if !logger.ContainsField("component", "automl.trainer") {
		t.Error("named logger should record its component")
	}
	if !logger.ContainsField(AccuracyKey, 0.9) {
		t.Errorf("field %s not captured", AccuracyKey)
	}
}

func TestFieldMap(t *testing.T) {
	m := fieldMap([]any{"rows", 10, "error", errors.New("boom"), "dangling"})

	if m["rows"] != 10 {
		t.Errorf("rows = %v, want 10", m["rows"])
	}
	if m["error"] != "boom" {
		t.Errorf("error = %v, want boom", m["error"])
	}
	// 値のないキーは無視される
	if _, ok := m["dangling"]; ok {
		t.Error("dangling key should be dropped")
	}
}
