package ports

import (
	"context"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// DocumentRepository defines persistence for the report library.
type DocumentRepository interface {
	Insert(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	FindByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, category string, limit, offset int64) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
