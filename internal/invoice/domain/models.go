// Package domain contains persistence models for invoicing.
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus classifies an invoice relative to its balance and due date.
// It is a cached value: the authoritative classification is always
// ComputeStatus over (due date, amount, paid amount, now).
type InvoiceStatus string

const (
	InvoiceStatusDue     InvoiceStatus = "due"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDue, InvoiceStatusOverdue, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice is one billing month's obligation for a lease. Property and tenant
// IDs are denormalized from the lease so list screens filter without joins.
//
// The (lease_id, period) unique index is the duplicate-prevention mechanism:
// generation inserts with ON CONFLICT DO NOTHING, so repeated or racing
// generator runs can never produce a second invoice for the same month.
type Invoice struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	LeaseID    snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_invoices_lease_period" json:"lease_id"`
	PropertyID snowflake.ID  `gorm:"not null;index:ix_invoices_property_status" json:"property_id"`
	TenantID   snowflake.ID  `gorm:"not null;index:ix_invoices_tenant_status" json:"tenant_id"`
	Period     string        `gorm:"type:text;not null;uniqueIndex:ux_invoices_lease_period" json:"period"`
	Amount     int64         `gorm:"not null" json:"amount"`
	DueDate    time.Time     `gorm:"not null;index:ix_invoices_status_due,priority:2" json:"due_date"`
	PaidAmount int64         `gorm:"not null;default:0" json:"paid_amount"`
	Status     InvoiceStatus `gorm:"type:text;not null;default:'due';index:ix_invoices_status_due,priority:1;index:ix_invoices_property_status,priority:2;index:ix_invoices_tenant_status,priority:2" json:"status"`
	Memo       *string       `gorm:"type:text" json:"memo,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Balance is the amount still owed on the invoice.
func (i Invoice) Balance() int64 {
	return i.Amount - i.PaidAmount
}

var (
	ErrNotFound      = errors.New("invoice_not_found")
	ErrLeaseNotFound = errors.New("invoice_lease_not_found")
	ErrInvalidPeriod = errors.New("invalid_period")
)

// InvalidPaidAmountError rejects a manual paid-amount adjustment outside
// [0, amount]. It carries the invoice total so callers can surface the bound.
type InvalidPaidAmountError struct {
	PaidAmount int64
	Amount     int64
}

func (e *InvalidPaidAmountError) Error() string {
	return fmt.Sprintf("paid amount %d must be between 0 and invoice total %d", e.PaidAmount, e.Amount)
}
