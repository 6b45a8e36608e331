package ports

import (
	"context"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

type DocumentService interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	Get(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, category string, limit, offset int64) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
	// RecordDownload tracks that an investor fetched a document.
	RecordDownload(ctx context.Context, documentID, userEmail string) error
	ListDownloads(ctx context.Context, limit, offset int64) ([]domain.DownloadRecord, error)
}
