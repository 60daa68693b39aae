package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/nyumba/nyumba/internal/audit/domain"
	auditservice "github.com/nyumba/nyumba/internal/audit/service"
	"github.com/nyumba/nyumba/internal/clock"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	invoiceservice "github.com/nyumba/nyumba/internal/invoice/service"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	propertyservice "github.com/nyumba/nyumba/internal/property/service"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	tenantservice "github.com/nyumba/nyumba/internal/tenant/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock

	propertySvc propertydomain.Service
	tenantSvc   tenantdomain.Service
	invoiceSvc  invoicedomain.Service
	svc         leasedomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&propertydomain.Property{},
		&tenantdomain.Tenant{},
		&leasedomain.Lease{},
		&invoicedomain.Invoice{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	fake := clock.NewFakeClock(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local))

	auditSvc := auditservice.NewService(auditservice.Params{DB: db, Log: log, GenID: node})
	propertySvc := propertyservice.NewService(propertyservice.Params{DB: db, Log: log, GenID: node})
	tenantSvc := tenantservice.NewService(tenantservice.Params{DB: db, Log: log, GenID: node})
	invoiceSvc := invoiceservice.NewService(invoiceservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, AuditSvc: auditSvc,
	})

	return &fixture{
		db:          db,
		clock:       fake,
		propertySvc: propertySvc,
		tenantSvc:   tenantSvc,
		invoiceSvc:  invoiceSvc,
		svc: NewService(Params{
			DB:          db,
			Log:         log,
			GenID:       node,
			Clock:       fake,
			AuditSvc:    auditSvc,
			InvoiceSvc:  invoiceSvc,
			PropertySvc: propertySvc,
			TenantSvc:   tenantSvc,
		}),
	}
}

func (f *fixture) seedPropertyAndTenant(t *testing.T, name string) (propertydomain.Property, tenantdomain.Tenant) {
	t.Helper()

	prop, err := f.propertySvc.Create(context.Background(), propertydomain.CreatePropertyRequest{
		Name:    name,
		Type:    propertydomain.PropertyTypeHouse,
		Address: "Plot 12, Kabulonga, Lusaka",
	})
	require.NoError(t, err)

	tenant, err := f.tenantSvc.Create(context.Background(), tenantdomain.CreateTenantRequest{
		FullName: "Bwalya Mwansa",
		Phone:    "+260971234567",
	})
	require.NoError(t, err)
	return prop, tenant
}

func (f *fixture) createLease(t *testing.T, prop propertydomain.Property, tenant tenantdomain.Tenant) leasedomain.Lease {
	t.Helper()

	lease, err := f.svc.Create(context.Background(), leasedomain.CreateLeaseRequest{
		PropertyID: prop.ID,
		TenantID:   tenant.ID,
		StartDate:  f.clock.Now(),
		RentAmount: 800000,
		DueDay:     5,
	})
	require.NoError(t, err)
	return lease
}

func TestCreateLeaseBootstrapsInvoicesAndOccupiesProperty(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Kabulonga House")

	lease := f.createLease(t, prop, tenant)
	assert.Equal(t, leasedomain.LeaseStatusActive, lease.Status)

	got, err := f.propertySvc.GetByID(context.Background(), prop.ID.String())
	require.NoError(t, err)
	assert.Equal(t, propertydomain.PropertyStatusOccupied, got.Status)

	// Current month plus three ahead.
	invoices, err := f.invoiceSvc.List(context.Background(), invoicedomain.ListInvoiceRequest{LeaseID: &lease.ID})
	require.NoError(t, err)
	assert.Len(t, invoices, 4)
}

func TestCreateLeaseValidation(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Roma Flat")

	base := leasedomain.CreateLeaseRequest{
		PropertyID: prop.ID,
		TenantID:   tenant.ID,
		StartDate:  f.clock.Now(),
		RentAmount: 800000,
		DueDay:     5,
	}

	req := base
	req.RentAmount = 0
	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, leasedomain.ErrInvalidRentAmount)

	req = base
	req.DueDay = 29
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, leasedomain.ErrInvalidDueDay)

	req = base
	req.DueDay = 0
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, leasedomain.ErrInvalidDueDay)

	req = base
	req.DepositAmount = -1
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, leasedomain.ErrInvalidDeposit)

	req = base
	req.StartDate = time.Time{}
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, leasedomain.ErrInvalidStartDate)
}

func TestCreateLeaseRejectsOccupiedProperty(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Chilenje House")
	f.createLease(t, prop, tenant)

	other, err := f.tenantSvc.Create(context.Background(), tenantdomain.CreateTenantRequest{
		FullName: "Chanda Phiri",
		Phone:    "+260977654321",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), leasedomain.CreateLeaseRequest{
		PropertyID: prop.ID,
		TenantID:   other.ID,
		StartDate:  f.clock.Now(),
		RentAmount: 900000,
		DueDay:     1,
	})
	assert.ErrorIs(t, err, leasedomain.ErrPropertyOccupied)
}

func TestCreateLeaseRejectsDuplicateRef(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Woodlands Shop")
	ref := "LSE-2025-001"

	_, err := f.svc.Create(context.Background(), leasedomain.CreateLeaseRequest{
		PropertyID: prop.ID,
		TenantID:   tenant.ID,
		StartDate:  f.clock.Now(),
		RentAmount: 800000,
		DueDay:     5,
		LeaseRef:   &ref,
	})
	require.NoError(t, err)

	prop2, err := f.propertySvc.Create(context.Background(), propertydomain.CreatePropertyRequest{
		Name:    "Northmead Shop",
		Type:    propertydomain.PropertyTypeShop,
		Address: "Northmead, Lusaka",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), leasedomain.CreateLeaseRequest{
		PropertyID: prop2.ID,
		TenantID:   tenant.ID,
		StartDate:  f.clock.Now(),
		RentAmount: 600000,
		DueDay:     5,
		LeaseRef:   &ref,
	})
	assert.ErrorIs(t, err, leasedomain.ErrDuplicateLeaseRef)
}

func TestEndLeaseFreesProperty(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Avondale House")
	lease := f.createLease(t, prop, tenant)

	ended, err := f.svc.End(context.Background(), lease.ID.String(), f.clock.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, leasedomain.LeaseStatusEnded, ended.Status)
	require.NotNil(t, ended.EndDate)

	got, err := f.propertySvc.GetByID(context.Background(), prop.ID.String())
	require.NoError(t, err)
	assert.Equal(t, propertydomain.PropertyStatusVacant, got.Status)

	_, err = f.svc.End(context.Background(), lease.ID.String(), f.clock.Now())
	assert.ErrorIs(t, err, leasedomain.ErrAlreadyEnded)
}

func TestEndLeaseRejectsEndBeforeStart(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Longacres Office")
	lease := f.createLease(t, prop, tenant)

	_, err := f.svc.End(context.Background(), lease.ID.String(), lease.StartDate.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, leasedomain.ErrInvalidEndDate)
}

func TestDeleteLeaseBlockedByInvoices(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Makeni House")
	lease := f.createLease(t, prop, tenant)

	err := f.svc.Delete(context.Background(), lease.ID.String())
	assert.ErrorIs(t, err, leasedomain.ErrHasInvoices)

	require.NoError(t, f.db.Where("lease_id = ?", lease.ID).Delete(&invoicedomain.Invoice{}).Error)
	require.NoError(t, f.svc.Delete(context.Background(), lease.ID.String()))

	_, err = f.svc.GetByID(context.Background(), lease.ID.String())
	assert.ErrorIs(t, err, leasedomain.ErrNotFound)

	got, err := f.propertySvc.GetByID(context.Background(), prop.ID.String())
	require.NoError(t, err)
	assert.Equal(t, propertydomain.PropertyStatusVacant, got.Status)
}

func TestUpdateLeaseAppliesToFutureGenerationOnly(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Ibex Hill House")
	lease := f.createLease(t, prop, tenant)

	newRent := int64(950000)
	updated, err := f.svc.Update(context.Background(), lease.ID.String(), leasedomain.UpdateLeaseRequest{
		RentAmount: &newRent,
	})
	require.NoError(t, err)
	assert.Equal(t, newRent, updated.RentAmount)

	// Invoices already generated keep the old rent.
	invoices, err := f.invoiceSvc.List(context.Background(), invoicedomain.ListInvoiceRequest{LeaseID: &lease.ID})
	require.NoError(t, err)
	for _, inv := range invoices {
		assert.Equal(t, int64(800000), inv.Amount)
	}

	// The next generated month bills at the new rent.
	f.clock.Advance(4 * 31 * 24 * time.Hour)
	_, err = f.invoiceSvc.GenerateForLease(context.Background(), lease.ID.String(), 0)
	require.NoError(t, err)

	invoices, err = f.invoiceSvc.List(context.Background(), invoicedomain.ListInvoiceRequest{LeaseID: &lease.ID})
	require.NoError(t, err)
	last := invoices[len(invoices)-1]
	assert.Equal(t, newRent, last.Amount)
}

func TestGetActiveByProperty(t *testing.T) {
	f := newFixture(t)
	prop, tenant := f.seedPropertyAndTenant(t, "Olympia Flat")
	lease := f.createLease(t, prop, tenant)

	got, err := f.svc.GetActiveByProperty(context.Background(), prop.ID.String())
	require.NoError(t, err)
	assert.Equal(t, lease.ID, got.ID)

	_, err = f.svc.End(context.Background(), lease.ID.String(), f.clock.Now())
	require.NoError(t, err)

	_, err = f.svc.GetActiveByProperty(context.Background(), prop.ID.String())
	assert.ErrorIs(t, err, leasedomain.ErrNotFound)
}
