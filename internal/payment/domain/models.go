// Package domain contains persistence models for payments.
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentMethod is how the money arrived. Mobile money is split by network
// because reconciliation against statements happens per provider.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodMomo   PaymentMethod = "momo"
	PaymentMethodAirtel PaymentMethod = "airtel"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOther  PaymentMethod = "other"
)

func ValidMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBank, PaymentMethodMomo,
		PaymentMethodAirtel, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is an immutable record of money received against an invoice.
// Payments are never edited or deleted; a mistake is corrected by adjusting
// the invoice's paid amount, which LedgerDrift then surfaces.
type Payment struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID  `gorm:"not null;index" json:"invoice_id"`
	LeaseID       snowflake.ID  `gorm:"not null;index" json:"lease_id"`
	Amount        int64         `gorm:"not null" json:"amount"`
	Method        PaymentMethod `gorm:"type:text;not null" json:"method"`
	Reference     *string       `gorm:"type:text;uniqueIndex:ux_payments_reference" json:"reference,omitempty"`
	ReceiptNumber string        `gorm:"type:text;not null;uniqueIndex:ux_payments_receipt_number" json:"receipt_number"`
	PaidAt        time.Time     `gorm:"not null;index" json:"paid_at"`
	Note          *string       `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

var (
	ErrNotFound           = errors.New("payment_not_found")
	ErrInvoiceNotFound    = errors.New("payment_invoice_not_found")
	ErrInvalidAmount      = errors.New("invalid_payment_amount")
	ErrInvalidMethod      = errors.New("invalid_payment_method")
	ErrDuplicateReference = errors.New("duplicate_payment_reference")
)

// ExceedsBalanceError rejects a payment larger than the invoice's remaining
// balance. It carries the balance so callers can tell the user how much is
// still owed.
type ExceedsBalanceError struct {
	Amount    int64
	Remaining int64
}

func (e *ExceedsBalanceError) Error() string {
	return fmt.Sprintf("payment of %d exceeds remaining balance %d", e.Amount, e.Remaining)
}
