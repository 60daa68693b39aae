package migration

import (
	auditdomain "github.com/nyumba/nyumba/internal/audit/domain"
	"github.com/nyumba/nyumba/internal/config"
	invoicedomain "github.com/nyumba/nyumba/internal/invoice/domain"
	leasedomain "github.com/nyumba/nyumba/internal/lease/domain"
	paymentdomain "github.com/nyumba/nyumba/internal/payment/domain"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations target postgres; the sqlite and mysql
		// paths exist for local development and fall back to AutoMigrate.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&propertydomain.Property{},
				&tenantdomain.Tenant{},
				&leasedomain.Lease{},
				&invoicedomain.Invoice{},
				&paymentdomain.Payment{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
