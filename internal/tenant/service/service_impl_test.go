package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) tenantdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tenantdomain.Tenant{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(Params{DB: db, Log: zaptest.NewLogger(t), GenID: node})
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc := newService(t)

	email := "  Bwalya.Mwansa@Example.COM "
	tenant, err := svc.Create(context.Background(), tenantdomain.CreateTenantRequest{
		FullName: "Bwalya Mwansa",
		Phone:    "+260971234567",
		Email:    &email,
	})
	require.NoError(t, err)

	require.NotNil(t, tenant.Email)
	assert.Equal(t, "bwalya.mwansa@example.com", *tenant.Email)
	assert.True(t, tenant.IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), tenantdomain.CreateTenantRequest{Phone: "+260977000000"})
	assert.ErrorIs(t, err, tenantdomain.ErrInvalidName)

	_, err = svc.Create(context.Background(), tenantdomain.CreateTenantRequest{FullName: "Mutale Chanda"})
	assert.ErrorIs(t, err, tenantdomain.ErrInvalidPhone)
}

func TestDeactivateKeepsHistory(t *testing.T) {
	svc := newService(t)

	tenant, err := svc.Create(context.Background(), tenantdomain.CreateTenantRequest{
		FullName: "Bwalya Mwansa",
		Phone:    "+260971234567",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), tenant.ID.String()))

	// The row survives deactivation; only the active flag flips.
	got, err := svc.GetByID(context.Background(), tenant.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.NotNil(t, got.DeactivatedAt)

	active, err := svc.List(context.Background(), tenantdomain.ListTenantRequest{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(context.Background(), tenantdomain.ListTenantRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeactivateUnknownTenant(t *testing.T) {
	svc := newService(t)

	err := svc.Deactivate(context.Background(), "987654321")
	assert.ErrorIs(t, err, tenantdomain.ErrNotFound)
}
