package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID     ID
	SampleKey ID
)

func (id RunID) String() string     { return ID(id).String() }
func (id SampleKey) String() string { return ID(id).String() }

// NewRunID creates an identifier for one batch evaluation.
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// ParseSampleKey parses a string into SampleKey
func ParseSampleKey(s string) (SampleKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("sample key cannot be empty")
	}
	return SampleKey(strings.TrimSpace(s)), nil
}
