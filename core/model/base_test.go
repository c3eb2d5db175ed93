package model

import (
	"bytes"
	"testing"
)

func TestBaseEstimatorState(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Error("new estimator should not be fitted")
	}
	e.SetFitted()
	if !e.IsFitted() {
		t.Error("SetFitted should mark the estimator fitted")
	}
	e.Reset()
	if e.IsFitted() {
		t.Error("Reset should clear the fitted state")
	}
}

type gobEstimator struct {
	BaseEstimator
	Weights []float64
}

func TestFittedStateSurvivesGob(t *testing.T) {
	src := &gobEstimator{Weights: []float64{1, 2, 3}}
	src.SetFitted()

	var buf bytes.Buffer
	if err := SaveModelToWriter(src, &buf); err != nil {
		t.Fatalf("SaveModelToWriter failed: %v", err)
	}

	var dst gobEstimator
	if err := LoadModelFromReader(&dst, &buf); err != nil {
		t.Fatalf("LoadModelFromReader failed: %v", err)
	}

	// 学習済みフラグも重みもgob往復で保持される
	if !dst.IsFitted() {
		t.Error("fitted state lost across gob round trip")
	}
	if len(dst.Weights) != 3 || dst.Weights[2] != 3 {
		t.Errorf("Weights = %v, want [1 2 3]", dst.Weights)
	}
}

func TestLoadModelFromReaderBadStream(t *testing.T) {
	var dst gobEstimator
	if err := LoadModelFromReader(&dst, bytes.NewReader([]byte("garbage"))); err == nil {
		t.Error("expected error for a corrupt stream")
	}
}
