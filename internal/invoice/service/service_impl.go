package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/nyumba/nyumba/internal/audit/domain"
	"github.com/nyumba/nyumba/internal/clock"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	"github.com/nyumba/nyumba/internal/period"
	"github.com/nyumba/nyumba/pkg/db/option"
	"github.com/nyumba/nyumba/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	AuditSvc auditdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	invoicerepo repository.Repository[invoicedomain.Invoice]
	leaserepo   repository.Repository[leasedomain.Lease]
	auditSvc    auditdomain.Service
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,

		invoicerepo: repository.ProvideStore[invoicedomain.Invoice](p.DB),
		leaserepo:   repository.ProvideStore[leasedomain.Lease](p.DB),
		auditSvc:    p.AuditSvc,
	}
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) ([]invoicedomain.Invoice, error) {
	filter := &invoicedomain.Invoice{}
	if req.Status != nil {
		filter.Status = *req.Status
	}
	if req.LeaseID != nil {
		filter.LeaseID = *req.LeaseID
	}
	if req.PropertyID != nil {
		filter.PropertyID = *req.PropertyID
	}
	if req.TenantID != nil {
		filter.TenantID = *req.TenantID
	}

	opts := []option.QueryOption{option.WithOrder("due_date ASC")}
	if req.Period != nil {
		label := strings.TrimSpace(*req.Period)
		if _, _, err := period.Parse(label); err != nil {
			return nil, invoicedomain.ErrInvalidPeriod
		}
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field: "period", Operator: option.EQ, Value: label,
		}))
	}
	if req.DueFrom != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field: "due_date", Operator: option.GTE, Value: *req.DueFrom,
		}))
	}
	if req.DueTo != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field: "due_date", Operator: option.LTE, Value: *req.DueTo,
		}))
	}

	items, err := s.invoicerepo.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	item, err := s.invoicerepo.FindOne(ctx, &invoicedomain.Invoice{ID: invoiceID})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if item == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GenerateForLease(ctx context.Context, leaseID string, monthsAhead int) (invoicedomain.GenerateResult, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(leaseID))
	if err != nil {
		return invoicedomain.GenerateResult{}, invoicedomain.ErrLeaseNotFound
	}

	lease, err := s.leaserepo.FindOne(ctx, &leasedomain.Lease{ID: id})
	if err != nil {
		return invoicedomain.GenerateResult{}, err
	}
	if lease == nil {
		return invoicedomain.GenerateResult{}, invoicedomain.ErrLeaseNotFound
	}

	created, err := s.generate(ctx, lease, monthsAhead)
	if err != nil {
		return invoicedomain.GenerateResult{}, err
	}
	return invoicedomain.GenerateResult{Created: created}, nil
}

func (s *Service) GenerateForAllActiveLeases(ctx context.Context, monthsAhead int) (invoicedomain.BatchGenerateResult, error) {
	leases, err := s.leaserepo.Find(ctx, &leasedomain.Lease{Status: leasedomain.LeaseStatusActive})
	if err != nil {
		return invoicedomain.BatchGenerateResult{}, err
	}

	result := invoicedomain.BatchGenerateResult{}
	for _, lease := range leases {
		if lease == nil {
			continue
		}
		created, err := s.generate(ctx, lease, monthsAhead)
		if err != nil {
			return result, err
		}
		result.Leases++
		result.Created += created
	}
	return result, nil
}

// generate inserts the missing invoices for the window [current month,
// current month + monthsAhead]. Existing (lease, period) rows are left
// untouched so a manually adjusted paid amount never gets clobbered by a
// rerun; the unique index plus DO NOTHING makes concurrent generator calls
// collapse into a single winner per period.
func (s *Service) generate(ctx context.Context, lease *leasedomain.Lease, monthsAhead int) (int, error) {
	if monthsAhead < 0 {
		monthsAhead = 0
	}

	now := s.clock.Now()
	start := period.MonthStart(now)

	created := 0
	for i := 0; i <= monthsAhead; i++ {
		month := period.AddMonths(start, i)
		label := period.ToPeriod(month)
		dueDate := period.DueDate(month.Year(), month.Month(), lease.DueDay)
		amount := lease.RentAmount

		inv := invoicedomain.Invoice{
			ID:         s.genID.Generate(),
			LeaseID:    lease.ID,
			PropertyID: lease.PropertyID,
			TenantID:   lease.TenantID,
			Period:     label,
			Amount:     amount,
			DueDate:    dueDate,
			PaidAmount: 0,
			Status:     invoicedomain.ComputeStatus(dueDate, amount, 0, now),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lease_id"}, {Name: "period"}},
			DoNothing: true,
		}).Create(&inv)
		if res.Error != nil {
			return created, res.Error
		}
		created += int(res.RowsAffected)
	}

	if created > 0 {
		s.log.Info("generated invoices",
			zap.String("lease_id", lease.ID.String()),
			zap.Int("months_ahead", monthsAhead),
			zap.Int("created", created),
		)
	}
	return created, nil
}

func (s *Service) RefreshStatuses(ctx context.Context) (invoicedomain.RefreshResult, error) {
	now := s.clock.Now()

	updated := 0
	var batch []invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("id", "due_date", "amount", "paid_amount", "status").
		FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
			for _, inv := range batch {
				status := invoicedomain.ComputeStatus(inv.DueDate, inv.Amount, inv.PaidAmount, now)
				if status == inv.Status {
					continue
				}
				res := s.db.WithContext(ctx).
					Model(&invoicedomain.Invoice{}).
					Where("id = ?", inv.ID).
					Updates(map[string]any{"status": status, "updated_at": now})
				if res.Error != nil {
					return res.Error
				}
				updated += int(res.RowsAffected)
			}
			return nil
		}).Error
	if err != nil {
		return invoicedomain.RefreshResult{}, err
	}

	if updated > 0 {
		s.log.Info("refreshed invoice statuses", zap.Int("updated", updated))
	}
	return invoicedomain.RefreshResult{Updated: updated}, nil
}

func (s *Service) AdjustPaidAmount(ctx context.Context, invoiceID string, paidAmount int64) (invoicedomain.Invoice, error) {
	inv, err := s.GetByID(ctx, invoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	if paidAmount < 0 || paidAmount > inv.Amount {
		return invoicedomain.Invoice{}, &invoicedomain.InvalidPaidAmountError{
			PaidAmount: paidAmount,
			Amount:     inv.Amount,
		}
	}

	now := s.clock.Now()
	status := invoicedomain.ComputeStatus(inv.DueDate, inv.Amount, paidAmount, now)

	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(map[string]any{
			"paid_amount": paidAmount,
			"status":      status,
			"updated_at":  now,
		}).Error
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	targetID := inv.ID.String()
	_ = s.auditSvc.AuditLog(ctx, auditdomain.ActorTypeLandlord, nil,
		"invoice.paid_amount_adjusted", "invoice", &targetID, map[string]any{
			"previous_paid_amount": inv.PaidAmount,
			"paid_amount":          paidAmount,
			"status":               string(status),
		})

	inv.PaidAmount = paidAmount
	inv.Status = status
	inv.UpdatedAt = now
	return inv, nil
}
