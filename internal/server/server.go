// Package server exposes the landlord API over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/nyumba/nyumba/internal/audit"
	auditdomain "github.com/nyumba/nyumba/internal/audit/domain"
	"github.com/nyumba/nyumba/internal/config"
	"github.com/nyumba/nyumba/internal/dashboard"
	dashboarddomain "github.com/nyumba/nyumba/internal/dashboard/domain"
	"github.com/nyumba/nyumba/internal/invoice"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	"github.com/nyumba/nyumba/internal/lease"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	obsmetrics "github.com/nyumba/nyumba/internal/observability/metrics"
	"github.com/nyumba/nyumba/internal/payment"
	paymentdomain "github.com/nyumba/nyumba/internal/payment/domain"
	"github.com/nyumba/nyumba/internal/property"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	"github.com/nyumba/nyumba/internal/tenant"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	property.Module,
	tenant.Module,
	lease.Module,
	invoice.Module,
	payment.Module,
	dashboard.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(obsmetrics.GinMiddleware(obsmetrics.HTTPWithConfig(obsmetrics.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	})))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, cfg config.Config) *gin.Engine {
	return NewEngine(log, cfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	auditSvc     auditdomain.Service
	propertySvc  propertydomain.Service
	tenantSvc    tenantdomain.Service
	leaseSvc     leasedomain.Service
	invoiceSvc   invoicedomain.Service
	paymentSvc   paymentdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	AuditSvc     auditdomain.Service
	PropertySvc  propertydomain.Service
	TenantSvc    tenantdomain.Service
	LeaseSvc     leasedomain.Service
	InvoiceSvc   invoicedomain.Service
	PaymentSvc   paymentdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		auditSvc:     p.AuditSvc,
		propertySvc:  p.PropertySvc,
		tenantSvc:    p.TenantSvc,
		leaseSvc:     p.LeaseSvc,
		invoiceSvc:   p.InvoiceSvc,
		paymentSvc:   p.PaymentSvc,
		dashboardSvc: p.DashboardSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Properties --------
	api.GET("/properties", s.ListProperties)
	api.POST("/properties", s.CreateProperty)
	api.GET("/properties/:id", s.GetPropertyByID)
	api.PUT("/properties/:id/status", s.SetPropertyStatus)
	api.GET("/properties/:id/lease", s.GetActiveLeaseByProperty)

	// -------- Tenants --------
	api.GET("/tenants", s.ListTenants)
	api.POST("/tenants", s.CreateTenant)
	api.GET("/tenants/:id", s.GetTenantByID)
	api.POST("/tenants/:id/deactivate", s.DeactivateTenant)

	// -------- Leases --------
	api.GET("/leases", s.ListLeases)
	api.POST("/leases", s.CreateLease)
	api.GET("/leases/:id", s.GetLeaseByID)
	api.PATCH("/leases/:id", s.UpdateLease)
	api.POST("/leases/:id/end", s.EndLease)
	api.DELETE("/leases/:id", s.DeleteLease)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.POST("/invoices/generate", s.GenerateInvoices)
	api.POST("/invoices/refresh-statuses", s.RefreshInvoiceStatuses)
	api.PUT("/invoices/:id/paid-amount", s.AdjustInvoicePaidAmount)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.RecordPayment)
	api.GET("/payments/drift", s.ListLedgerDrift)
	api.GET("/payments/:id", s.GetPaymentByID)
	api.GET("/payments/:id/receipt", s.GetPaymentReceipt)

	// -------- Dashboard --------
	api.GET("/dashboard/summary", s.GetDashboardSummary)

	// -------- Audit --------
	api.GET("/audit-logs", s.ListAuditLogs)
}
