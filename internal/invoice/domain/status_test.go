package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	today     = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	yesterday = today.AddDate(0, 0, -1)
	tomorrow  = today.AddDate(0, 0, 1)
)

func TestComputeStatusFullyPaidOverridesOverdue(t *testing.T) {
	assert.Equal(t, InvoiceStatusPaid, ComputeStatus(yesterday, 1000, 1000, today))
	assert.Equal(t, InvoiceStatusPaid, ComputeStatus(yesterday, 1000, 1500, today))
}

func TestComputeStatusUnpaid(t *testing.T) {
	assert.Equal(t, InvoiceStatusDue, ComputeStatus(tomorrow, 1000, 0, today))
	assert.Equal(t, InvoiceStatusOverdue, ComputeStatus(yesterday, 1000, 0, today))
}

func TestComputeStatusPartial(t *testing.T) {
	assert.Equal(t, InvoiceStatusOverdue, ComputeStatus(yesterday, 1000, 400, today))
	assert.Equal(t, InvoiceStatusPartial, ComputeStatus(tomorrow, 1000, 400, today))
}

func TestComputeStatusZeroAmountNeverPaid(t *testing.T) {
	// A zero-amount invoice with zero paid is not "paid"; it classifies on
	// the due date like any other untouched invoice.
	assert.Equal(t, InvoiceStatusDue, ComputeStatus(tomorrow, 0, 0, today))
	assert.Equal(t, InvoiceStatusOverdue, ComputeStatus(yesterday, 0, 0, today))
}

func TestComputeStatusDueDateBoundaryIsStrict(t *testing.T) {
	// An invoice due exactly now is not yet past due.
	assert.Equal(t, InvoiceStatusDue, ComputeStatus(today, 1000, 0, today))
	assert.Equal(t, InvoiceStatusPartial, ComputeStatus(today, 1000, 400, today))
}

func TestComputeStatusDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, ComputeStatus(yesterday, 1000, 400, today), ComputeStatus(yesterday, 1000, 400, today))
	}
}
