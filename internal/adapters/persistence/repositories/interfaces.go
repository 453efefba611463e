package repositories

import (
	"context"
	"time"

	"partsdepot/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id uint, active bool) error
	UpdatePassword(ctx context.Context, id uint, hashed string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ListPartsFilter narrows a catalog listing
type ListPartsFilter struct {
	Category string
	Brand    string
	Search   string
}

// PartRepository defines part repository interface
type PartRepository interface {
	Create(ctx context.Context, part *models.Part) error
	GetByID(ctx context.Context, id uint) (*models.Part, error)
	GetByPartNumber(ctx context.Context, number string) (*models.Part, error)
	Update(ctx context.Context, part *models.Part) error
	List(ctx context.Context, filter ListPartsFilter, offset, limit int) ([]*models.Part, int64, error)
}

// OrderRepository defines order repository interface.
// PlaceOrder commits the order and its stock decrements in one database
// transaction; either everything lands or nothing does.
type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Order, int64, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Order, int64, error)
	Update(ctx context.Context, order *models.Order) error
}

// QuoteRepository defines quote repository interface
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByID(ctx context.Context, id uint) (*models.Quote, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Quote, int64, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Quote, int64, error)
	Update(ctx context.Context, quote *models.Quote) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// ShippingMethodRepository defines shipping method repository interface
type ShippingMethodRepository interface {
	GetByCode(ctx context.Context, code string) (*models.ShippingMethod, error)
	List(ctx context.Context) ([]*models.ShippingMethod, error)
}
