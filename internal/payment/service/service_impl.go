package service

import (
	"context"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/nyumba/nyumba/internal/audit/domain"
	"github.com/nyumba/nyumba/internal/clock"
	"github.com/nyumba/nyumba/internal/config"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	paymentdomain "github.com/nyumba/nyumba/internal/payment/domain"
	"github.com/nyumba/nyumba/internal/payment/render"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	"github.com/nyumba/nyumba/pkg/db"
	"github.com/nyumba/nyumba/pkg/db/option"
	"github.com/nyumba/nyumba/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	renderer *render.Renderer

	paymentrepo  repository.Repository[paymentdomain.Payment]
	invoicerepo  repository.Repository[invoicedomain.Invoice]
	leaserepo    repository.Repository[leasedomain.Lease]
	tenantrepo   repository.Repository[tenantdomain.Tenant]
	propertyrepo repository.Repository[propertydomain.Property]
	auditSvc     auditdomain.Service
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		renderer: render.NewRenderer(p.Cfg.LandlordName, p.Cfg.CurrencyCode),

		paymentrepo:  repository.ProvideStore[paymentdomain.Payment](p.DB),
		invoicerepo:  repository.ProvideStore[invoicedomain.Invoice](p.DB),
		leaserepo:    repository.ProvideStore[leasedomain.Lease](p.DB),
		tenantrepo:   repository.ProvideStore[tenantdomain.Tenant](p.DB),
		propertyrepo: repository.ProvideStore[propertydomain.Property](p.DB),
		auditSvc:     p.AuditSvc,
	}
}

func (s *Service) Record(ctx context.Context, req paymentdomain.RecordPaymentRequest) (paymentdomain.RecordResult, error) {
	if req.Amount <= 0 {
		return paymentdomain.RecordResult{}, paymentdomain.ErrInvalidAmount
	}
	if !paymentdomain.ValidMethod(req.Method) {
		return paymentdomain.RecordResult{}, paymentdomain.ErrInvalidMethod
	}

	now := s.clock.Now()
	paidAt := now
	if req.PaidAt != nil && !req.PaidAt.IsZero() {
		paidAt = *req.PaidAt
	}

	var (
		payment paymentdomain.Payment
		invoice invoicedomain.Invoice
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The balance guard lives in the WHERE clause so the check and the
		// increment are one statement. A racing payment that would push the
		// total over the invoice amount simply matches zero rows.
		res := tx.Model(&invoicedomain.Invoice{}).
			Where("id = ? AND paid_amount + ? <= amount", req.InvoiceID, req.Amount).
			Updates(map[string]any{
				"paid_amount": gorm.Expr("paid_amount + ?", req.Amount),
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current invoicedomain.Invoice
			err := tx.Where("id = ?", req.InvoiceID).First(&current).Error
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return paymentdomain.ErrInvoiceNotFound
				}
				return err
			}
			return &paymentdomain.ExceedsBalanceError{
				Amount:    req.Amount,
				Remaining: current.Balance(),
			}
		}

		if err := tx.Where("id = ?", req.InvoiceID).First(&invoice).Error; err != nil {
			return err
		}

		status := invoicedomain.ComputeStatus(invoice.DueDate, invoice.Amount, invoice.PaidAmount, now)
		if status != invoice.Status {
			if err := tx.Model(&invoicedomain.Invoice{}).
				Where("id = ?", invoice.ID).
				Update("status", status).Error; err != nil {
				return err
			}
			invoice.Status = status
		}

		payment = paymentdomain.Payment{
			ID:            s.genID.Generate(),
			InvoiceID:     invoice.ID,
			LeaseID:       invoice.LeaseID,
			Amount:        req.Amount,
			Method:        req.Method,
			Reference:     normalizeReference(req.Reference),
			ReceiptNumber: ulid.Make().String(),
			PaidAt:        paidAt,
			Note:          req.Note,
			CreatedAt:     now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return paymentdomain.ErrDuplicateReference
			}
			return err
		}
		return nil
	})
	if err != nil {
		return paymentdomain.RecordResult{}, err
	}

	paymentID := payment.ID.String()
	_ = s.auditSvc.AuditLog(ctx, auditdomain.ActorTypeLandlord, nil,
		"payment.recorded", "payment", &paymentID, map[string]any{
			"invoice_id": invoice.ID.String(),
			"amount":     payment.Amount,
			"method":     string(payment.Method),
		})

	s.log.Info("payment recorded",
		zap.String("payment_id", paymentID),
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int64("amount", payment.Amount),
	)
	return paymentdomain.RecordResult{Payment: payment, Invoice: invoice}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (paymentdomain.Payment, error) {
	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return paymentdomain.Payment{}, paymentdomain.ErrNotFound
	}

	item, err := s.paymentrepo.FindOne(ctx, &paymentdomain.Payment{ID: paymentID})
	if err != nil {
		return paymentdomain.Payment{}, err
	}
	if item == nil {
		return paymentdomain.Payment{}, paymentdomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req paymentdomain.ListPaymentRequest) ([]paymentdomain.Payment, error) {
	filter := &paymentdomain.Payment{}
	if req.InvoiceID != nil {
		filter.InvoiceID = *req.InvoiceID
	}
	if req.LeaseID != nil {
		filter.LeaseID = *req.LeaseID
	}
	if req.Method != nil {
		filter.Method = *req.Method
	}

	items, err := s.paymentrepo.Find(ctx, filter, option.WithOrder("paid_at DESC"))
	if err != nil {
		return nil, err
	}

	payments := make([]paymentdomain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}
	return payments, nil
}

func (s *Service) Receipt(ctx context.Context, paymentID string) (io.Reader, error) {
	payment, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoicerepo.FindOne(ctx, &invoicedomain.Invoice{ID: payment.InvoiceID})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, paymentdomain.ErrInvoiceNotFound
	}

	tenantName := ""
	if tenant, err := s.tenantrepo.FindOne(ctx, &tenantdomain.Tenant{ID: invoice.TenantID}); err == nil && tenant != nil {
		tenantName = tenant.FullName
	}
	propertyName := ""
	if property, err := s.propertyrepo.FindOne(ctx, &propertydomain.Property{ID: invoice.PropertyID}); err == nil && property != nil {
		propertyName = property.Name
	}

	reference := ""
	if payment.Reference != nil {
		reference = *payment.Reference
	}

	return s.renderer.Render(render.ReceiptData{
		ReceiptNumber: payment.ReceiptNumber,
		DatePaid:      payment.PaidAt.Format("2 January 2006"),
		Method:        string(payment.Method),
		Reference:     reference,
		TenantName:    tenantName,
		PropertyName:  propertyName,
		Period:        invoice.Period,
		Amount:        s.renderer.FormatAmount(payment.Amount),
		PaidToDate:    s.renderer.FormatAmount(invoice.PaidAmount),
		Balance:       s.renderer.FormatAmount(invoice.Balance()),
	})
}

func (s *Service) LedgerDrift(ctx context.Context) ([]paymentdomain.Drift, error) {
	var drifts []paymentdomain.Drift
	err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("invoices.id AS invoice_id",
			"invoices.period AS period",
			"invoices.paid_amount AS paid_amount",
			"COALESCE(SUM(payments.amount), 0) AS payments_total").
		Joins("LEFT JOIN payments ON payments.invoice_id = invoices.id").
		Group("invoices.id, invoices.period, invoices.paid_amount").
		Having("invoices.paid_amount <> COALESCE(SUM(payments.amount), 0)").
		Scan(&drifts).Error
	if err != nil {
		return nil, err
	}
	return drifts, nil
}

func normalizeReference(ref *string) *string {
	if ref == nil {
		return nil
	}
	normalized := strings.TrimSpace(*ref)
	if normalized == "" {
		return nil
	}
	return &normalized
}
