// Package domain contains persistence models for tenants.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is a person renting (or who used to rent) one of the landlord's
// properties. Tenants are deactivated, never deleted, so lease and payment
// history stays intact.
type Tenant struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	FullName      string       `gorm:"type:text;not null;index" json:"full_name"`
	Phone         string       `gorm:"type:text;not null;index" json:"phone"`
	Email         *string      `gorm:"type:text" json:"email,omitempty"`
	NationalID    *string      `gorm:"type:text" json:"national_id,omitempty"`
	Notes         *string      `gorm:"type:text" json:"notes,omitempty"`
	IsActive      bool         `gorm:"not null;default:true;index" json:"is_active"`
	DeactivatedAt *time.Time   `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

var (
	ErrNotFound     = errors.New("tenant_not_found")
	ErrInvalidName  = errors.New("invalid_tenant_name")
	ErrInvalidPhone = errors.New("invalid_tenant_phone")
)
