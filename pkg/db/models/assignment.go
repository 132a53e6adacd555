package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

// Assignment is one staff member's candidacy record within an order.
//
// The order exclusively owns its assignments: rows only exist under an
// order and are deleted with it. Position preserves insertion order, which
// is what fixed the Shift value when the row was created. StaffName and
// StaffNumber are denormalized for display so roster views never join.
type Assignment struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID              `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_order_staff" json:"order_id"`
	StaffID     uuid.UUID              `gorm:"column:staff_id;type:uuid;not null;uniqueIndex:idx_order_staff" json:"staff_id"`
	StaffName   string                 `gorm:"column:staff_name;not null" json:"staff_name"`
	StaffNumber string                 `gorm:"column:staff_number;not null" json:"staff_number"`
	Status      enums.AssignmentStatus `gorm:"column:status;not null;default:''" json:"status"`
	Shift       int                    `gorm:"column:shift;not null;default:1" json:"shift"`
	StartTime   string                 `gorm:"column:start_time;not null" json:"start_time"`
	EndTime     string                 `gorm:"column:end_time;not null" json:"end_time"`
	Position    int                    `gorm:"column:position;not null" json:"position"`

	// ScheduledDeletionAt is set iff Status is rechazado; the expiry sweep
	// removes the row once it passes.
	ScheduledDeletionAt *time.Time `gorm:"column:scheduled_deletion_at" json:"scheduled_deletion_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName implements the gorm table naming override.
func (Assignment) TableName() string { return "order_assignments" }
