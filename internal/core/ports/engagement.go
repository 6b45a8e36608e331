package ports

import (
	"context"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// Lead-capture persistence: contact-us submissions, investment-selector
// profiles, and the download audit trail.

type ContactRepository interface {
	Insert(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	List(ctx context.Context, limit, offset int64) ([]domain.ContactMessage, error)
	Count(ctx context.Context) (int64, error)
}

type ProfileRepository interface {
	Insert(ctx context.Context, profile *domain.InvestmentProfile) (*domain.InvestmentProfile, error)
	List(ctx context.Context, limit, offset int64) ([]domain.InvestmentProfile, error)
	Count(ctx context.Context) (int64, error)
}

type DownloadRepository interface {
	Insert(ctx context.Context, rec *domain.DownloadRecord) error
	List(ctx context.Context, limit, offset int64) ([]domain.DownloadRecord, error)
	Count(ctx context.Context) (int64, error)
}

type EngagementService interface {
	StoreContact(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	ListContacts(ctx context.Context, limit, offset int64) ([]domain.ContactMessage, error)
	StoreProfile(ctx context.Context, profile *domain.InvestmentProfile) (*domain.InvestmentProfile, error)
	ListProfiles(ctx context.Context, limit, offset int64) ([]domain.InvestmentProfile, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
