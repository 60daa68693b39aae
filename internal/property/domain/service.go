package domain

import "context"

type CreatePropertyRequest struct {
	Name    string       `json:"name"`
	Type    PropertyType `json:"type"`
	Address string       `json:"address"`
	Notes   *string      `json:"notes,omitempty"`
}

type ListPropertyRequest struct {
	Status *PropertyStatus
	Type   *PropertyType
}

type Service interface {
	Create(ctx context.Context, req CreatePropertyRequest) (Property, error)
	GetByID(ctx context.Context, id string) (Property, error)
	List(ctx context.Context, req ListPropertyRequest) ([]Property, error)
	SetStatus(ctx context.Context, id string, status PropertyStatus) error
}
