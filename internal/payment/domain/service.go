package domain

import (
	"context"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
)

type RecordPaymentRequest struct {
	InvoiceID snowflake.ID  `json:"invoice_id"`
	Amount    int64         `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Reference *string       `json:"reference,omitempty"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`
	Note      *string       `json:"note,omitempty"`
}

// RecordResult returns the payment together with the invoice as it stands
// after the increment, so callers see the new balance without a second read.
type RecordResult struct {
	Payment Payment               `json:"payment"`
	Invoice invoicedomain.Invoice `json:"invoice"`
}

type ListPaymentRequest struct {
	InvoiceID *snowflake.ID
	LeaseID   *snowflake.ID
	Method    *PaymentMethod
}

// Drift is an invoice whose cached paid amount disagrees with the sum of its
// payments, normally the trace of a manual paid-amount adjustment.
type Drift struct {
	InvoiceID     snowflake.ID `json:"invoice_id"`
	Period        string       `json:"period"`
	PaidAmount    int64        `json:"paid_amount"`
	PaymentsTotal int64        `json:"payments_total"`
}

type Service interface {
	// Record applies a payment to an invoice. The balance check and the
	// paid-amount increment are a single atomic step, so two racing
	// payments can never overshoot the invoice total.
	Record(ctx context.Context, req RecordPaymentRequest) (RecordResult, error)

	GetByID(ctx context.Context, id string) (Payment, error)
	List(ctx context.Context, req ListPaymentRequest) ([]Payment, error)

	// Receipt renders a PDF receipt for a recorded payment.
	Receipt(ctx context.Context, paymentID string) (io.Reader, error)

	// LedgerDrift lists invoices whose paid amount no longer equals the sum
	// of their payments.
	LedgerDrift(ctx context.Context) ([]Drift, error)
}
