package enums

import "fmt"

// AssignmentStatus tracks one staff member's reply state within an order.
//
// The empty string is a valid status: an assignment starts without a value
// until the staffing request has been sent.
type AssignmentStatus string

const (
	AssignmentStatusUnset     AssignmentStatus = ""
	AssignmentStatusSent      AssignmentStatus = "enviado"
	AssignmentStatusConfirmed AssignmentStatus = "confirmado"
	AssignmentStatusRejected  AssignmentStatus = "rechazado"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusUnset,
	AssignmentStatusSent,
	AssignmentStatusConfirmed,
	AssignmentStatusRejected,
}

// String implements fmt.Stringer.
func (s AssignmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AssignmentStatus.
func (s AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAssignmentStatus converts raw input into an AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
