package domain

import "context"

type CreateTenantRequest struct {
	FullName   string  `json:"full_name"`
	Phone      string  `json:"phone"`
	Email      *string `json:"email,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type ListTenantRequest struct {
	ActiveOnly bool
}

type Service interface {
	Create(ctx context.Context, req CreateTenantRequest) (Tenant, error)
	GetByID(ctx context.Context, id string) (Tenant, error)
	List(ctx context.Context, req ListTenantRequest) ([]Tenant, error)
	Deactivate(ctx context.Context, id string) error
}
