package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/nyumba/nyumba/internal/audit/domain"
	"github.com/nyumba/nyumba/internal/clock"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	"github.com/nyumba/nyumba/pkg/db"
	"github.com/nyumba/nyumba/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	AuditSvc    auditdomain.Service
	InvoiceSvc  invoicedomain.Service
	PropertySvc propertydomain.Service
	TenantSvc   tenantdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	repo        repository.Repository[leasedomain.Lease]
	auditSvc    auditdomain.Service
	invoiceSvc  invoicedomain.Service
	propertySvc propertydomain.Service
	tenantSvc   tenantdomain.Service
}

func NewService(p Params) leasedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("lease.service"),
		genID: p.GenID,
		clock: p.Clock,

		repo:        repository.ProvideStore[leasedomain.Lease](p.DB),
		auditSvc:    p.AuditSvc,
		invoiceSvc:  p.InvoiceSvc,
		propertySvc: p.PropertySvc,
		tenantSvc:   p.TenantSvc,
	}
}

func (s *Service) Create(ctx context.Context, req leasedomain.CreateLeaseRequest) (leasedomain.Lease, error) {
	if req.RentAmount <= 0 {
		return leasedomain.Lease{}, leasedomain.ErrInvalidRentAmount
	}
	if req.DueDay < 1 || req.DueDay > 28 {
		return leasedomain.Lease{}, leasedomain.ErrInvalidDueDay
	}
	if req.DepositAmount < 0 {
		return leasedomain.Lease{}, leasedomain.ErrInvalidDeposit
	}
	if req.StartDate.IsZero() {
		return leasedomain.Lease{}, leasedomain.ErrInvalidStartDate
	}

	property, err := s.propertySvc.GetByID(ctx, req.PropertyID.String())
	if err != nil {
		return leasedomain.Lease{}, err
	}
	if _, err := s.tenantSvc.GetByID(ctx, req.TenantID.String()); err != nil {
		return leasedomain.Lease{}, err
	}

	existing, err := s.repo.FindOne(ctx, &leasedomain.Lease{
		PropertyID: property.ID,
		Status:     leasedomain.LeaseStatusActive,
	})
	if err != nil {
		return leasedomain.Lease{}, err
	}
	if existing != nil {
		return leasedomain.Lease{}, leasedomain.ErrPropertyOccupied
	}

	now := s.clock.Now()
	lease := leasedomain.Lease{
		ID:            s.genID.Generate(),
		PropertyID:    property.ID,
		TenantID:      req.TenantID,
		StartDate:     req.StartDate,
		RentAmount:    req.RentAmount,
		DueDay:        req.DueDay,
		DepositAmount: req.DepositAmount,
		LeaseRef:      normalizeRef(req.LeaseRef),
		Status:        leasedomain.LeaseStatusActive,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &lease); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Two unique indexes can fire here: the lease_ref index and the
			// partial one-active-lease-per-property index.
			if lease.LeaseRef != nil {
				ref, findErr := s.repo.FindOne(ctx, &leasedomain.Lease{LeaseRef: lease.LeaseRef})
				if findErr == nil && ref != nil {
					return leasedomain.Lease{}, leasedomain.ErrDuplicateLeaseRef
				}
			}
			return leasedomain.Lease{}, leasedomain.ErrPropertyOccupied
		}
		return leasedomain.Lease{}, err
	}

	if err := s.propertySvc.SetStatus(ctx, property.ID.String(), propertydomain.PropertyStatusOccupied); err != nil {
		s.log.Warn("failed to mark property occupied",
			zap.String("property_id", property.ID.String()), zap.Error(err))
	}

	if _, err := s.invoiceSvc.GenerateForLease(ctx, lease.ID.String(), invoicedomain.DefaultMonthsAhead); err != nil {
		// The scheduler's catch-up run will fill in whatever this missed.
		s.log.Warn("failed to bootstrap invoices for new lease",
			zap.String("lease_id", lease.ID.String()), zap.Error(err))
	}

	leaseID := lease.ID.String()
	_ = s.auditSvc.AuditLog(ctx, auditdomain.ActorTypeLandlord, nil,
		"lease.created", "lease", &leaseID, map[string]any{
			"property_id": lease.PropertyID.String(),
			"tenant_id":   lease.TenantID.String(),
			"rent_amount": lease.RentAmount,
			"due_day":     lease.DueDay,
		})

	return lease, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (leasedomain.Lease, error) {
	leaseID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return leasedomain.Lease{}, leasedomain.ErrNotFound
	}

	item, err := s.repo.FindOne(ctx, &leasedomain.Lease{ID: leaseID})
	if err != nil {
		return leasedomain.Lease{}, err
	}
	if item == nil {
		return leasedomain.Lease{}, leasedomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetActiveByProperty(ctx context.Context, propertyID string) (leasedomain.Lease, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(propertyID))
	if err != nil {
		return leasedomain.Lease{}, leasedomain.ErrNotFound
	}

	item, err := s.repo.FindOne(ctx, &leasedomain.Lease{
		PropertyID: id,
		Status:     leasedomain.LeaseStatusActive,
	})
	if err != nil {
		return leasedomain.Lease{}, err
	}
	if item == nil {
		return leasedomain.Lease{}, leasedomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req leasedomain.ListLeaseRequest) ([]leasedomain.Lease, error) {
	stmt := s.db.WithContext(ctx).Model(&leasedomain.Lease{})
	if req.Status != nil {
		stmt = stmt.Where("status = ?", *req.Status)
	}
	if req.TenantID != nil {
		stmt = stmt.Where("tenant_id = ?", *req.TenantID)
	}

	var leases []leasedomain.Lease
	if err := stmt.Order("start_date DESC").Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

func (s *Service) Update(ctx context.Context, id string, req leasedomain.UpdateLeaseRequest) (leasedomain.Lease, error) {
	lease, err := s.GetByID(ctx, id)
	if err != nil {
		return leasedomain.Lease{}, err
	}

	values := map[string]any{}
	if req.RentAmount != nil {
		if *req.RentAmount <= 0 {
			return leasedomain.Lease{}, leasedomain.ErrInvalidRentAmount
		}
		values["rent_amount"] = *req.RentAmount
		lease.RentAmount = *req.RentAmount
	}
	if req.DueDay != nil {
		if *req.DueDay < 1 || *req.DueDay > 28 {
			return leasedomain.Lease{}, leasedomain.ErrInvalidDueDay
		}
		values["due_day"] = *req.DueDay
		lease.DueDay = *req.DueDay
	}
	if req.DepositAmount != nil {
		if *req.DepositAmount < 0 {
			return leasedomain.Lease{}, leasedomain.ErrInvalidDeposit
		}
		values["deposit_amount"] = *req.DepositAmount
		lease.DepositAmount = *req.DepositAmount
	}
	if req.StartDate != nil {
		if req.StartDate.IsZero() {
			return leasedomain.Lease{}, leasedomain.ErrInvalidStartDate
		}
		values["start_date"] = *req.StartDate
		lease.StartDate = *req.StartDate
	}
	if req.Notes != nil {
		values["notes"] = *req.Notes
		lease.Notes = req.Notes
	}
	if len(values) == 0 {
		return lease, nil
	}

	now := s.clock.Now()
	values["updated_at"] = now
	lease.UpdatedAt = now

	// Rent and due-day changes apply to invoices generated from now on;
	// already issued invoices keep the terms they were billed under.
	if err := s.repo.Update(ctx, lease.ID.String(), values); err != nil {
		return leasedomain.Lease{}, err
	}
	return lease, nil
}

func (s *Service) End(ctx context.Context, id string, endDate time.Time) (leasedomain.Lease, error) {
	lease, err := s.GetByID(ctx, id)
	if err != nil {
		return leasedomain.Lease{}, err
	}
	if lease.Status == leasedomain.LeaseStatusEnded {
		return leasedomain.Lease{}, leasedomain.ErrAlreadyEnded
	}

	if endDate.IsZero() {
		endDate = s.clock.Now()
	}
	if endDate.Before(lease.StartDate) {
		return leasedomain.Lease{}, leasedomain.ErrInvalidEndDate
	}

	now := s.clock.Now()
	if err := s.repo.Update(ctx, lease.ID.String(), map[string]any{
		"status":     leasedomain.LeaseStatusEnded,
		"end_date":   endDate,
		"updated_at": now,
	}); err != nil {
		return leasedomain.Lease{}, err
	}

	if err := s.propertySvc.SetStatus(ctx, lease.PropertyID.String(), propertydomain.PropertyStatusVacant); err != nil {
		s.log.Warn("failed to mark property vacant",
			zap.String("property_id", lease.PropertyID.String()), zap.Error(err))
	}

	leaseID := lease.ID.String()
	_ = s.auditSvc.AuditLog(ctx, auditdomain.ActorTypeLandlord, nil,
		"lease.ended", "lease", &leaseID, map[string]any{
			"property_id": lease.PropertyID.String(),
			"end_date":    endDate.Format(time.RFC3339),
		})

	lease.Status = leasedomain.LeaseStatusEnded
	lease.EndDate = &endDate
	lease.UpdatedAt = now
	return lease, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	lease, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var invoiceCount int64
	if err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("lease_id = ?", lease.ID).
		Count(&invoiceCount).Error; err != nil {
		return err
	}
	if invoiceCount > 0 {
		return leasedomain.ErrHasInvoices
	}

	if err := s.repo.Delete(ctx, lease.ID.String()); err != nil {
		return err
	}

	if lease.Status == leasedomain.LeaseStatusActive {
		if err := s.propertySvc.SetStatus(ctx, lease.PropertyID.String(), propertydomain.PropertyStatusVacant); err != nil {
			s.log.Warn("failed to mark property vacant",
				zap.String("property_id", lease.PropertyID.String()), zap.Error(err))
		}
	}

	leaseID := lease.ID.String()
	_ = s.auditSvc.AuditLog(ctx, auditdomain.ActorTypeLandlord, nil,
		"lease.deleted", "lease", &leaseID, map[string]any{
			"property_id": lease.PropertyID.String(),
		})
	return nil
}

func normalizeRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	normalized := strings.TrimSpace(*ref)
	if normalized == "" {
		return nil
	}
	return &normalized
}
