package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/nyumba/nyumba/internal/tenant/domain"
	"github.com/nyumba/nyumba/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[tenantdomain.Tenant]
}

func NewService(p Params) tenantdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[tenantdomain.Tenant](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req tenantdomain.CreateTenantRequest) (tenantdomain.Tenant, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return tenantdomain.Tenant{}, tenantdomain.ErrInvalidName
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return tenantdomain.Tenant{}, tenantdomain.ErrInvalidPhone
	}

	now := time.Now().UTC()
	tenant := tenantdomain.Tenant{
		ID:         s.genID.Generate(),
		FullName:   fullName,
		Phone:      phone,
		Email:      normalizeEmail(req.Email),
		NationalID: req.NationalID,
		Notes:      req.Notes,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, &tenant); err != nil {
		return tenantdomain.Tenant{}, err
	}
	return tenant, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (tenantdomain.Tenant, error) {
	tenantID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return tenantdomain.Tenant{}, tenantdomain.ErrNotFound
	}

	item, err := s.repo.FindOne(ctx, &tenantdomain.Tenant{ID: tenantID})
	if err != nil {
		return tenantdomain.Tenant{}, err
	}
	if item == nil {
		return tenantdomain.Tenant{}, tenantdomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req tenantdomain.ListTenantRequest) ([]tenantdomain.Tenant, error) {
	stmt := s.db.WithContext(ctx).Model(&tenantdomain.Tenant{})
	if req.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}

	var tenants []tenantdomain.Tenant
	if err := stmt.Order("full_name ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.repo.Update(ctx, tenant.ID.String(), map[string]any{
		"is_active":      false,
		"deactivated_at": now,
		"updated_at":     now,
	})
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}
