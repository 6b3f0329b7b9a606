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
		// Fallback to v4 if v7 fails
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
	ReportID   ID
	RunID      ID
	EntityKey  ID
	FeatureKey ID
)

// String conversions for domain IDs
func (id ReportID) String() string   { return ID(id).String() }
func (id RunID) String() string      { return ID(id).String() }
func (id EntityKey) String() string  { return ID(id).String() }
func (id FeatureKey) String() string { return ID(id).String() }

// ParseEntityKey parses a string into EntityKey
func ParseEntityKey(s string) (EntityKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("entity key cannot be empty")
	}
	return EntityKey(s), nil
}

// ParseFeatureKey parses a string into FeatureKey
func ParseFeatureKey(s string) (FeatureKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("feature key cannot be empty")
	}
	return FeatureKey(s), nil
}
