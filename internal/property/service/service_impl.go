package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	"github.com/nyumba/nyumba/pkg/db"
	"github.com/nyumba/nyumba/pkg/db/option"
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
	repo  repository.Repository[propertydomain.Property]
}

func NewService(p Params) propertydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("property.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[propertydomain.Property](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req propertydomain.CreatePropertyRequest) (propertydomain.Property, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return propertydomain.Property{}, propertydomain.ErrInvalidName
	}
	if req.Type == "" {
		req.Type = propertydomain.PropertyTypeHouse
	}
	if !propertydomain.ValidType(req.Type) {
		return propertydomain.Property{}, propertydomain.ErrInvalidType
	}

	now := time.Now().UTC()
	prop := propertydomain.Property{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		Type:      req.Type,
		Address:   strings.TrimSpace(req.Address),
		Status:    propertydomain.PropertyStatusVacant,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, &prop); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return propertydomain.Property{}, propertydomain.ErrDuplicateSlug
		}
		return propertydomain.Property{}, err
	}
	return prop, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (propertydomain.Property, error) {
	propertyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return propertydomain.Property{}, propertydomain.ErrNotFound
	}

	item, err := s.repo.FindOne(ctx, &propertydomain.Property{ID: propertyID})
	if err != nil {
		return propertydomain.Property{}, err
	}
	if item == nil {
		return propertydomain.Property{}, propertydomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req propertydomain.ListPropertyRequest) ([]propertydomain.Property, error) {
	filter := &propertydomain.Property{}
	if req.Status != nil {
		filter.Status = *req.Status
	}
	if req.Type != nil {
		filter.Type = *req.Type
	}

	items, err := s.repo.Find(ctx, filter, option.WithOrder("name ASC"))
	if err != nil {
		return nil, err
	}

	properties := make([]propertydomain.Property, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		properties = append(properties, *item)
	}
	return properties, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, status propertydomain.PropertyStatus) error {
	return s.repo.Update(ctx, id, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}
