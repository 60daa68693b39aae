package domain

import (
	"time"

	"github.com/nyumba/nyumba/internal/period"
)

// ComputeStatus classifies an invoice at the given instant.
//
// Precedence: fully paid wins over everything, then a partial balance is
// split on the due date, then an untouched balance is split on the due date.
// The evaluation instant is always explicit; the function reads no clocks and
// keeps no state, so identical inputs always classify identically.
func ComputeStatus(dueDate time.Time, amount, paidAmount int64, now time.Time) InvoiceStatus {
	if paidAmount >= amount && amount > 0 {
		return InvoiceStatusPaid
	}
	if paidAmount > 0 && paidAmount < amount {
		if period.IsPast(dueDate, now) {
			return InvoiceStatusOverdue
		}
		return InvoiceStatusPartial
	}
	if period.IsPast(dueDate, now) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusDue
}
