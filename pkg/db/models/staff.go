package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

// Staff is a waitstaff member ("camarero") available for assignment.
type Staff struct {
	ID     uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name   string            `gorm:"column:name;not null" json:"name"`
	Number string            `gorm:"column:number;not null;uniqueIndex" json:"number"`
	Phone  string            `gorm:"column:phone;not null" json:"phone"`
	Email  *string           `gorm:"column:email" json:"email,omitempty"`
	Status enums.StaffStatus `gorm:"column:status;not null;default:'activo'" json:"status"`

	Availability []StaffAvailability `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"availability,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName implements the gorm table naming override.
func (Staff) TableName() string { return "staff" }

// StaffAvailability is one calendar entry on a staff member's availability.
type StaffAvailability struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StaffID   uuid.UUID `gorm:"column:staff_id;type:uuid;not null;index" json:"staff_id"`
	Day       time.Time `gorm:"column:day;type:date;not null" json:"day"`
	Available bool      `gorm:"column:available;not null;default:true" json:"available"`
	Note      *string   `gorm:"column:note" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName implements the gorm table naming override.
func (StaffAvailability) TableName() string { return "staff_availability" }
