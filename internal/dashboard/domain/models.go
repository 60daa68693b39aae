// Package domain contains read models for the landlord dashboard.
package domain

import (
	"context"

	paymentdomain "github.com/nyumba/nyumba/internal/payment/domain"
)

// StatusCount is one invoice status bucket with its outstanding balance.
type StatusCount struct {
	Count   int64 `json:"count"`
	Balance int64 `json:"balance"`
}

// Summary is the landlord's single-screen overview. All money values are in
// minor units of the configured currency.
type Summary struct {
	Properties struct {
		Total    int64 `json:"total"`
		Occupied int64 `json:"occupied"`
		Vacant   int64 `json:"vacant"`
	} `json:"properties"`

	ActiveLeases int64 `json:"active_leases"`

	Due     StatusCount `json:"due"`
	Overdue StatusCount `json:"overdue"`
	Partial StatusCount `json:"partial"`

	// PaidThisMonth counts the current billing month's invoices that are
	// fully settled.
	PaidThisMonth int64 `json:"paid_this_month"`

	// CollectedThisMonth sums payments received since the start of the
	// current calendar month.
	CollectedThisMonth int64 `json:"collected_this_month"`

	RecentPayments []paymentdomain.Payment `json:"recent_payments"`
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}
