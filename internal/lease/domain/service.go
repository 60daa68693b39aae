package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateLeaseRequest struct {
	PropertyID    snowflake.ID `json:"property_id"`
	TenantID      snowflake.ID `json:"tenant_id"`
	StartDate     time.Time    `json:"start_date"`
	RentAmount    int64        `json:"rent_amount"`
	DueDay        int          `json:"due_day"`
	DepositAmount int64        `json:"deposit_amount"`
	LeaseRef      *string      `json:"lease_ref,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
}

type UpdateLeaseRequest struct {
	RentAmount    *int64     `json:"rent_amount,omitempty"`
	DueDay        *int       `json:"due_day,omitempty"`
	DepositAmount *int64     `json:"deposit_amount,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

type ListLeaseRequest struct {
	Status   *LeaseStatus
	TenantID *snowflake.ID
}

type Service interface {
	Create(ctx context.Context, req CreateLeaseRequest) (Lease, error)
	GetByID(ctx context.Context, id string) (Lease, error)
	GetActiveByProperty(ctx context.Context, propertyID string) (Lease, error)
	List(ctx context.Context, req ListLeaseRequest) ([]Lease, error)
	Update(ctx context.Context, id string, req UpdateLeaseRequest) (Lease, error)
	End(ctx context.Context, id string, endDate time.Time) (Lease, error)
	Delete(ctx context.Context, id string) error
}
