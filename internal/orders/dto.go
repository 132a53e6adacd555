package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

// CreateOrderInput carries the fields a coordinator enters when opening a
// staffing request. The code is always generated server-side.
type CreateOrderInput struct {
	ClientName    string
	Venue         string
	EventDate     time.Time
	Shift1Count   int
	Shift1Start   string
	Shift1End     string
	Shift2Count   int
	Shift2Start   *string
	Shift2End     *string
	Catering      bool
	TravelMinutes *int
	ShirtColor    *string
	Notes         *string
	CoordinatorID *uuid.UUID
}

// UpdateOrderInput holds the editable order fields. Nil pointers leave the
// stored value untouched.
type UpdateOrderInput struct {
	ClientName    *string
	Venue         *string
	EventDate     *time.Time
	Shift1Count   *int
	Shift1Start   *string
	Shift1End     *string
	Shift2Count   *int
	Shift2Start   *string
	Shift2End     *string
	Catering      *bool
	TravelMinutes *int
	ShirtColor    *string
	Notes         *string
	CoordinatorID *uuid.UUID
}

// ListFilters describe the inputs supported by the orders list.
type ListFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// AssignStaffInput identifies the order and the staff member to add.
type AssignStaffInput struct {
	OrderID uuid.UUID
	StaffID uuid.UUID
}

// ChangeAssignmentStatusInput carries a flat status overwrite for one
// assignment.
type ChangeAssignmentStatusInput struct {
	OrderID      uuid.UUID
	AssignmentID uuid.UUID
	Status       enums.AssignmentStatus
}

// UpdateAssignmentTimesInput overrides one assignment's entry/exit times
// independently of the order's shift defaults.
type UpdateAssignmentTimesInput struct {
	OrderID      uuid.UUID
	AssignmentID uuid.UUID
	StartTime    string
	EndTime      string
}

// RemoveAssignmentInput identifies the assignment to drop from the roster.
type RemoveAssignmentInput struct {
	OrderID      uuid.UUID
	AssignmentID uuid.UUID
}

// MeetingTime is the computed call time for a catering order. Omitted is
// true when no travel estimate could be produced; MeetingAt is then empty.
type MeetingTime struct {
	OrderID       uuid.UUID `json:"order_id"`
	ShiftStart    string    `json:"shift_start"`
	TravelMinutes int       `json:"travel_minutes,omitempty"`
	MeetingAt     string    `json:"meeting_at,omitempty"`
	Omitted       bool      `json:"omitted"`
}

// AssignmentEvent is the payload published when an assignment reaches a
// terminal reply state.
type AssignmentEvent struct {
	EventType    enums.DomainEventType  `json:"event_type"`
	OrderID      uuid.UUID              `json:"order_id"`
	OrderCode    string                 `json:"order_code"`
	AssignmentID uuid.UUID              `json:"assignment_id"`
	StaffID      uuid.UUID              `json:"staff_id"`
	StaffName    string                 `json:"staff_name"`
	Status       enums.AssignmentStatus `json:"status"`
	OccurredAt   time.Time              `json:"occurred_at"`
}
