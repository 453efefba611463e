package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/core/domain"
)

// quoteRepository implements QuoteRepository interface
type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

// Create creates a new quote with its items. A unique-key violation on
// the quote number surfaces as domain.ErrDuplicateEntry so the service
// can redraw the number and retry.
func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	err := r.db.WithContext(ctx).Create(quote).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return domain.ErrDuplicateEntry
		}
	}
	return err
}

// GetByID gets a quote with its items
func (r *quoteRepository) GetByID(ctx context.Context, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// ListByUser lists a user's quotes with pagination
func (r *quoteRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Quote, int64, error) {
	var quotes []*models.Quote
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Quote{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&quotes).Error
	if err != nil {
		return nil, 0, err
	}

	return quotes, total, nil
}

// List lists all quotes, optionally filtered by status (admin view)
func (r *quoteRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Quote, int64, error) {
	var quotes []*models.Quote
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Quote{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&quotes).Error
	if err != nil {
		return nil, 0, err
	}

	return quotes, total, nil
}

// Update updates a quote
func (r *quoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// ExpireStale marks open quotes past their validity date as expired
// (cleanup job)
func (r *quoteRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("status = ?", domain.QuoteStatusOpen).
		Where("valid_until < ?", now).
		Update("status", domain.QuoteStatusExpired)
	return res.RowsAffected, res.Error
}
