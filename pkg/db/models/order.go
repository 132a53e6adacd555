package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is one staffing request ("pedido") tied to a client event.
//
// Shift times are stored as HH:MM strings, matching how coordinators enter
// them; EventDate carries the calendar date only. ClientName and
// CoordinatorID are weak references: orders survive the referenced records.
type Order struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string     `gorm:"column:code;not null;uniqueIndex" json:"code"`
	ClientName    string     `gorm:"column:client_name;not null" json:"client_name"`
	Venue         string     `gorm:"column:venue;not null" json:"venue"`
	EventDate     time.Time  `gorm:"column:event_date;type:date;not null" json:"event_date"`
	Shift1Count   int        `gorm:"column:shift1_count;not null;default:0" json:"shift1_count"`
	Shift1Start   string     `gorm:"column:shift1_start;not null" json:"shift1_start"`
	Shift1End     string     `gorm:"column:shift1_end;not null" json:"shift1_end"`
	Shift2Count   int        `gorm:"column:shift2_count;not null;default:0" json:"shift2_count"`
	Shift2Start   *string    `gorm:"column:shift2_start" json:"shift2_start,omitempty"`
	Shift2End     *string    `gorm:"column:shift2_end" json:"shift2_end,omitempty"`
	Catering      bool       `gorm:"column:catering;not null;default:false" json:"catering"`
	TravelMinutes *int       `gorm:"column:travel_minutes" json:"travel_minutes,omitempty"`
	ShirtColor    *string    `gorm:"column:shirt_color" json:"shirt_color,omitempty"`
	Notes         *string    `gorm:"column:notes" json:"notes,omitempty"`
	CoordinatorID *uuid.UUID `gorm:"column:coordinator_id;type:uuid" json:"coordinator_id,omitempty"`

	Assignments []Assignment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"assignments"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName implements the gorm table naming override.
func (Order) TableName() string { return "orders" }
