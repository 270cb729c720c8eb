package enums

import "fmt"

// Status is the visibility flag shared by catalog and reference data records.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var validStatuses = []Status{StatusActive, StatusInactive}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Status.
func (s Status) IsValid() bool {
	for _, candidate := range validStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a Status, treating blank as active.
func ParseStatus(value string) (Status, error) {
	if value == "" {
		return StatusActive, nil
	}
	for _, candidate := range validStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", value)
}

// StatusRule is the validator tag for status fields.
const StatusRule = "oneof=active inactive"
