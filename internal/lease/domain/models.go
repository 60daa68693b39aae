// Package domain contains persistence models for leases.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// LeaseStatus is the lease lifecycle state.
type LeaseStatus string

const (
	LeaseStatusActive LeaseStatus = "active"
	LeaseStatusEnded  LeaseStatus = "ended"
)

// Lease binds a tenant to a property at a flat monthly rent. DueDay is
// restricted to 1-28 so every billing month has the due day.
//
// At most one active lease may exist per property; the schema enforces it
// with a partial unique index on (property_id) WHERE status = 'active'.
type Lease struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	PropertyID    snowflake.ID `gorm:"not null;index" json:"property_id"`
	TenantID      snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	StartDate     time.Time    `gorm:"not null" json:"start_date"`
	EndDate       *time.Time   `json:"end_date,omitempty"`
	RentAmount    int64        `gorm:"not null" json:"rent_amount"`
	DueDay        int          `gorm:"not null" json:"due_day"`
	DepositAmount int64        `gorm:"not null;default:0" json:"deposit_amount"`
	LeaseRef      *string      `gorm:"type:text;uniqueIndex:ux_leases_lease_ref" json:"lease_ref,omitempty"`
	Status        LeaseStatus  `gorm:"type:text;not null;default:'active';index" json:"status"`
	Notes         *string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Lease) TableName() string { return "leases" }

var (
	ErrNotFound          = errors.New("lease_not_found")
	ErrInvalidRentAmount = errors.New("invalid_rent_amount")
	ErrInvalidDueDay     = errors.New("invalid_due_day")
	ErrInvalidDeposit    = errors.New("invalid_deposit_amount")
	ErrInvalidStartDate  = errors.New("invalid_start_date")
	ErrInvalidEndDate    = errors.New("invalid_end_date")
	ErrPropertyOccupied  = errors.New("property_has_active_lease")
	ErrDuplicateLeaseRef = errors.New("duplicate_lease_ref")
	ErrHasInvoices       = errors.New("lease_has_invoices")
	ErrAlreadyEnded      = errors.New("lease_already_ended")
)
