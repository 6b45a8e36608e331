package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

type engagementService struct {
	contacts  ports.ContactRepository
	profiles  ports.ProfileRepository
	downloads ports.DownloadRepository
	docs      ports.DocumentRepository
	users     ports.UserRepository
}

// NewEngagementService covers lead capture (contact form, investment
// selector) and the admin dashboard aggregates.
func NewEngagementService(
	contacts ports.ContactRepository,
	profiles ports.ProfileRepository,
	downloads ports.DownloadRepository,
	docs ports.DocumentRepository,
	users ports.UserRepository,
) ports.EngagementService {
	return &engagementService{
		contacts:  contacts,
		profiles:  profiles,
		downloads: downloads,
		docs:      docs,
		users:     users,
	}
}

func (s *engagementService) StoreContact(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	msg.CreatedAt = time.Now().UTC()
	return s.contacts.Insert(ctx, msg)
}

func (s *engagementService) ListContacts(ctx context.Context, limit, offset int64) ([]domain.ContactMessage, error) {
	return s.contacts.List(ctx, limit, offset)
}

func (s *engagementService) StoreProfile(ctx context.Context, profile *domain.InvestmentProfile) (*domain.InvestmentProfile, error) {
	profile.CreatedAt = time.Now().UTC()
	return s.profiles.Insert(ctx, profile)
}

func (s *engagementService) ListProfiles(ctx context.Context, limit, offset int64) ([]domain.InvestmentProfile, error) {
	return s.profiles.List(ctx, limit, offset)
}

func (s *engagementService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.Documents, err = s.docs.Count(ctx); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if stats.Downloads, err = s.downloads.Count(ctx); err != nil {
		return nil, fmt.Errorf("count downloads: %w", err)
	}
	if stats.ContactMessages, err = s.contacts.Count(ctx); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	if stats.InvestmentProfiles, err = s.profiles.Count(ctx); err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}
	return stats, nil
}
