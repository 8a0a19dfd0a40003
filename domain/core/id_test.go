package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestNewRunIDNotEmpty(t *testing.T) {
	if NewRunID() == "" {
		t.Fatal("Expected non-empty run ID")
	}
}

// TestParseSampleKey tests sample key parsing
func TestParseSampleKey(t *testing.T) {
	tests := []struct {
		input    string
		expected SampleKey
		hasError bool
	}{
		{"latency_ms", SampleKey("latency_ms"), false},
		{"  padded ", SampleKey("padded"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseSampleKey(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestParseRunID(t *testing.T) {
	if _, err := ParseRunID(""); err == nil {
		t.Error("Expected error for empty run ID")
	}
	id, err := ParseRunID("run-123")
	if err != nil || id != RunID("run-123") {
		t.Errorf("Expected run-123, got %s (%v)", id, err)
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsInvalidArgument(ErrEmptySample) {
		t.Error("ErrEmptySample should be an invalid-argument error")
	}
	if !IsInvalidArgument(NewArgumentError("d", "must lie in (0,1)")) {
		t.Error("NewArgumentError should wrap ErrInvalidArgument")
	}
	if IsInvalidArgument(ErrTooFewCategory) {
		t.Error("ErrTooFewCategory must not be an invalid-argument error")
	}
	if !IsInvalidState(ErrTooFewCategory) {
		t.Error("ErrTooFewCategory should be an invalid-state error")
	}
	if !errors.Is(NewNotFoundError("column", "x"), ErrNotFound) {
		t.Error("NewNotFoundError should wrap ErrNotFound")
	}
}
