package service

import (
	"context"
	"time"

	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

type documentService struct {
	docs      ports.DocumentRepository
	downloads ports.DownloadRepository
}

// NewDocumentService returns a DocumentService over the report library and
// its download audit trail.
func NewDocumentService(docs ports.DocumentRepository, downloads ports.DownloadRepository) ports.DocumentService {
	return &documentService{docs: docs, downloads: downloads}
}

func (s *documentService) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	return s.docs.Insert(ctx, doc)
}

func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docs.FindByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, category string, limit, offset int64) ([]domain.Document, error) {
	return s.docs.List(ctx, category, limit, offset)
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, id)
}

func (s *documentService) RecordDownload(ctx context.Context, documentID, userEmail string) error {
	if _, err := s.docs.FindByID(ctx, documentID); err != nil {
		return err
	}
	return s.downloads.Insert(ctx, &domain.DownloadRecord{
		DocumentID: documentID,
		UserEmail:  userEmail,
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *documentService) ListDownloads(ctx context.Context, limit, offset int64) ([]domain.DownloadRecord, error) {
	return s.downloads.List(ctx, limit, offset)
}
