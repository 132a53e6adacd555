package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is the agency customer an order is staffed for. Orders reference
// clients by name, not id, so renaming a client never rewrites history.
type Client struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	ContactName *string   `gorm:"column:contact_name" json:"contact_name,omitempty"`
	Phone       *string   `gorm:"column:phone" json:"phone,omitempty"`
	Email       *string   `gorm:"column:email" json:"email,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName implements the gorm table naming override.
func (Client) TableName() string { return "clients" }
