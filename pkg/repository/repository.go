package repository

import (
	"context"

	"github.com/nyumba/nyumba/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a thin generic store over gorm used by the domain services
// for their plain filter/find/create paths. Anything needing conditional
// updates or ON CONFLICT semantics drops down to the *gorm.DB directly.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Delete(ctx context.Context, resourceID string) error
	Count(ctx context.Context, query *T) (int64, error)
}
