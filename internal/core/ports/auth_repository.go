package ports

import (
	"context"

	"github.com/cdainvest/portal-system/internal/core/domain"
)

// UserRepository defines user persistence for both admin and investor accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Upsert creates the investor on first OTP login and refreshes the
	// name/phone on later ones.
	Upsert(ctx context.Context, identity domain.Identity) (*domain.User, error)
	List(ctx context.Context, limit, offset int64) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}
