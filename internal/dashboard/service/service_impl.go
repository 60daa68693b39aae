package service

import (
	"context"

	"github.com/nyumba/nyumba/internal/clock"
	dashboarddomain "github.com/nyumba/nyumba/internal/dashboard/domain"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	paymentdomain "github.com/nyumba/nyumba/internal/payment/domain"
	"github.com/nyumba/nyumba/internal/period"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) dashboarddomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
	}
}

func (s *Service) Summary(ctx context.Context) (dashboarddomain.Summary, error) {
	var summary dashboarddomain.Summary
	now := s.clock.Now()

	if err := s.db.WithContext(ctx).
		Model(&propertydomain.Property{}).
		Count(&summary.Properties.Total).Error; err != nil {
		return summary, err
	}
	if err := s.db.WithContext(ctx).
		Model(&propertydomain.Property{}).
		Where("status = ?", propertydomain.PropertyStatusOccupied).
		Count(&summary.Properties.Occupied).Error; err != nil {
		return summary, err
	}
	if err := s.db.WithContext(ctx).
		Model(&propertydomain.Property{}).
		Where("status = ?", propertydomain.PropertyStatusVacant).
		Count(&summary.Properties.Vacant).Error; err != nil {
		return summary, err
	}

	if err := s.db.WithContext(ctx).
		Model(&leasedomain.Lease{}).
		Where("status = ?", leasedomain.LeaseStatusActive).
		Count(&summary.ActiveLeases).Error; err != nil {
		return summary, err
	}

	buckets := map[invoicedomain.InvoiceStatus]*dashboarddomain.StatusCount{
		invoicedomain.InvoiceStatusDue:     &summary.Due,
		invoicedomain.InvoiceStatusOverdue: &summary.Overdue,
		invoicedomain.InvoiceStatusPartial: &summary.Partial,
	}
	for status, bucket := range buckets {
		row := struct {
			Count   int64
			Balance int64
		}{}
		err := s.db.WithContext(ctx).
			Model(&invoicedomain.Invoice{}).
			Select("COUNT(*) AS count", "COALESCE(SUM(amount - paid_amount), 0) AS balance").
			Where("status = ?", status).
			Scan(&row).Error
		if err != nil {
			return summary, err
		}
		bucket.Count = row.Count
		bucket.Balance = row.Balance
	}

	currentPeriod := period.ToPeriod(now)
	if err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("period = ? AND status = ?", currentPeriod, invoicedomain.InvoiceStatusPaid).
		Count(&summary.PaidThisMonth).Error; err != nil {
		return summary, err
	}

	var collected struct{ Total int64 }
	if err := s.db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("paid_at >= ?", period.MonthBoundary(now)).
		Scan(&collected).Error; err != nil {
		return summary, err
	}
	summary.CollectedThisMonth = collected.Total

	if err := s.db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Order("paid_at DESC").
		Limit(5).
		Find(&summary.RecentPayments).Error; err != nil {
		return summary, err
	}

	return summary, nil
}
