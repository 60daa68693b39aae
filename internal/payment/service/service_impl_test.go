package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/nyumba/nyumba/internal/audit/domain"
	auditservice "github.com/nyumba/nyumba/internal/audit/service"
	"github.com/nyumba/nyumba/internal/clock"
	"github.com/nyumba/nyumba/internal/config"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	invoiceservice "github.com/nyumba/nyumba/internal/invoice/service"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	paymentdomain "github.com/nyumba/nyumba/internal/payment/domain"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	genID *snowflake.Node

	invoiceSvc invoicedomain.Service
	svc        paymentdomain.Service

	lease   leasedomain.Lease
	invoice invoicedomain.Invoice
}

// newFixture seeds one active lease billing 8,000.00 due on the 5th, with the
// current month's invoice already generated and unpaid.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&propertydomain.Property{},
		&tenantdomain.Tenant{},
		&leasedomain.Lease{},
		&invoicedomain.Invoice{},
		&paymentdomain.Payment{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	fake := clock.NewFakeClock(time.Date(2025, time.June, 10, 9, 0, 0, 0, time.Local))

	auditSvc := auditservice.NewService(auditservice.Params{DB: db, Log: log, GenID: node})
	invoiceSvc := invoiceservice.NewService(invoiceservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, AuditSvc: auditSvc,
	})

	f := &fixture{
		db:         db,
		clock:      fake,
		genID:      node,
		invoiceSvc: invoiceSvc,
		svc: NewService(Params{
			DB:    db,
			Log:   log,
			GenID: node,
			Clock: fake,
			Cfg: config.Config{
				LandlordName: "J. Banda Properties",
				CurrencyCode: "ZMW",
			},
			AuditSvc: auditSvc,
		}),
	}

	tenant := tenantdomain.Tenant{
		ID:        node.Generate(),
		FullName:  "Bwalya Mwansa",
		Phone:     "+260971234567",
		IsActive:  true,
		CreatedAt: fake.Now(),
		UpdatedAt: fake.Now(),
	}
	require.NoError(t, db.Create(&tenant).Error)

	property := propertydomain.Property{
		ID:        node.Generate(),
		Name:      "Kabulonga House",
		Slug:      "kabulonga-house",
		Type:      propertydomain.PropertyTypeHouse,
		Address:   "Plot 12, Kabulonga, Lusaka",
		Status:    propertydomain.PropertyStatusOccupied,
		CreatedAt: fake.Now(),
		UpdatedAt: fake.Now(),
	}
	require.NoError(t, db.Create(&property).Error)

	f.lease = leasedomain.Lease{
		ID:         node.Generate(),
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		StartDate:  fake.Now().AddDate(0, -1, 0),
		RentAmount: 800000,
		DueDay:     5,
		Status:     leasedomain.LeaseStatusActive,
		CreatedAt:  fake.Now(),
		UpdatedAt:  fake.Now(),
	}
	require.NoError(t, db.Create(&f.lease).Error)

	_, err = invoiceSvc.GenerateForLease(context.Background(), f.lease.ID.String(), 0)
	require.NoError(t, err)

	invoices, err := invoiceSvc.List(context.Background(), invoicedomain.ListInvoiceRequest{LeaseID: &f.lease.ID})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	f.invoice = invoices[0]
	return f
}

func TestRecordPartialThenFullPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    300000,
		Method:    paymentdomain.PaymentMethodMomo,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300000), res.Invoice.PaidAmount)
	// Due date (June 5th) is already past, so a partial balance is overdue.
	assert.Equal(t, invoicedomain.InvoiceStatusOverdue, res.Invoice.Status)
	assert.NotEmpty(t, res.Payment.ReceiptNumber)

	res, err = f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    500000,
		Method:    paymentdomain.PaymentMethodBank,
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, res.Invoice.Status)
	assert.Equal(t, int64(0), res.Invoice.Balance())

	payments, err := f.svc.List(ctx, paymentdomain.ListPaymentRequest{InvoiceID: &f.invoice.ID})
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestRecordRejectsOverpaymentAndLeavesInvoiceUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    300000,
		Method:    paymentdomain.PaymentMethodCash,
	})
	require.NoError(t, err)

	var exceeds *paymentdomain.ExceedsBalanceError
	_, err = f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    600000,
		Method:    paymentdomain.PaymentMethodCash,
	})
	require.True(t, errors.As(err, &exceeds))
	assert.Equal(t, int64(500000), exceeds.Remaining)

	// The rejected payment must leave no trace.
	got, err := f.invoiceSvc.GetByID(ctx, f.invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(300000), got.PaidAmount)

	payments, err := f.svc.List(ctx, paymentdomain.ListPaymentRequest{InvoiceID: &f.invoice.ID})
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    0,
		Method:    paymentdomain.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	_, err = f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    100000,
		Method:    "cheque",
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidMethod)

	_, err = f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.genID.Generate(),
		Amount:    100000,
		Method:    paymentdomain.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvoiceNotFound)
}

func TestRecordRejectsDuplicateReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref := "MOMO-TXN-12345"

	_, err := f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    100000,
		Method:    paymentdomain.PaymentMethodMomo,
		Reference: &ref,
	})
	require.NoError(t, err)

	_, err = f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    100000,
		Method:    paymentdomain.PaymentMethodMomo,
		Reference: &ref,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrDuplicateReference)

	// The duplicate must not have incremented the invoice.
	got, err := f.invoiceSvc.GetByID(ctx, f.invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(100000), got.PaidAmount)
}

func TestLedgerDriftSurfacesManualAdjustment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    300000,
		Method:    paymentdomain.PaymentMethodCash,
	})
	require.NoError(t, err)

	drifts, err := f.svc.LedgerDrift(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	_, err = f.invoiceSvc.AdjustPaidAmount(ctx, f.invoice.ID.String(), 800000)
	require.NoError(t, err)

	drifts, err = f.svc.LedgerDrift(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, f.invoice.ID, drifts[0].InvoiceID)
	assert.Equal(t, int64(800000), drifts[0].PaidAmount)
	assert.Equal(t, int64(300000), drifts[0].PaymentsTotal)
}

func TestReceiptRendersPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    800000,
		Method:    paymentdomain.PaymentMethodBank,
	})
	require.NoError(t, err)

	reader, err := f.svc.Receipt(ctx, res.Payment.ID.String())
	require.NoError(t, err)

	pdf, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
