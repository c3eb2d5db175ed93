package model

import (
	"fmt"
)

// Hyperparameter maps carry values decoded from configuration files, so a
// numeric value may arrive as int, int64 or float64. These helpers normalize
// them for SetParams implementations.

// AsInt coerces a hyperparameter value to int.
func AsInt(v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

// AsFloat coerces a hyperparameter value to float64.
func AsFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// AsBool coerces a hyperparameter value to bool.
func AsBool(v interface{}) (bool, error) {
	if x, ok := v.(bool); ok {
		return x, nil
	}
	return false, fmt.Errorf("expected a bool, got %T", v)
}

// AsString coerces a hyperparameter value to string.
func AsString(v interface{}) (string, error) {
	if x, ok := v.(string); ok {
		return x, nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}
