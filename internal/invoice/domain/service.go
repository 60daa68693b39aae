package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultMonthsAhead is the forward window used when a lease is created:
// the current month plus three more.
const DefaultMonthsAhead = 3

type ListInvoiceRequest struct {
	Status     *InvoiceStatus
	LeaseID    *snowflake.ID
	PropertyID *snowflake.ID
	TenantID   *snowflake.ID

	// Period narrows to one billing month ("YYYY-MM"); a malformed label is
	// rejected with ErrInvalidPeriod. DueFrom and DueTo bound the due date
	// inclusively.
	Period  *string
	DueFrom *time.Time
	DueTo   *time.Time
}

type GenerateResult struct {
	Created int `json:"created"`
}

type BatchGenerateResult struct {
	Leases  int `json:"leases"`
	Created int `json:"created"`
}

type RefreshResult struct {
	Updated int `json:"updated"`
}

type Service interface {
	List(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)

	// GenerateForLease creates one invoice per billing month from the
	// current month through monthsAhead months forward, skipping months
	// that already have one. Idempotent and race-safe.
	GenerateForLease(ctx context.Context, leaseID string, monthsAhead int) (GenerateResult, error)

	// GenerateForAllActiveLeases runs per-lease generation across every
	// active lease; used by the scheduler for periodic catch-up.
	GenerateForAllActiveLeases(ctx context.Context, monthsAhead int) (BatchGenerateResult, error)

	// RefreshStatuses recomputes every invoice's cached status at the
	// current instant and persists only the ones that changed.
	RefreshStatuses(ctx context.Context) (RefreshResult, error)

	// AdjustPaidAmount force-sets the paid amount without writing a payment
	// record. Summed payments may then disagree with the invoice; the
	// payment service's LedgerDrift reports such invoices.
	AdjustPaidAmount(ctx context.Context, invoiceID string, paidAmount int64) (Invoice, error)
}
