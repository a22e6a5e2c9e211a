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
	ChartID   ID
	SessionID ID
)

func (id ChartID) String() string   { return ID(id).String() }
func (id SessionID) String() string { return ID(id).String() }

// NewChartID creates a time-ordered chart record identifier.
func NewChartID() ChartID { return ChartID(NewID()) }

// NewSessionID creates a chart-building session identifier.
func NewSessionID() SessionID { return SessionID(NewID()) }

// ParseChartID validates that s is a UUID and returns it as a ChartID.
func ParseChartID(s string) (ChartID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("chart ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid chart ID %q: %w", s, err)
	}
	return ChartID(s), nil
}

// ParseSessionID validates that s is a UUID and returns it as a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid session ID %q: %w", s, err)
	}
	return SessionID(s), nil
}
