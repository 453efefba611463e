package repositories

import (
	"context"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
)

// shippingMethodRepository implements ShippingMethodRepository interface
type shippingMethodRepository struct {
	db *gorm.DB
}

// NewShippingMethodRepository creates a new shipping method repository
func NewShippingMethodRepository(db *gorm.DB) ShippingMethodRepository {
	return &shippingMethodRepository{db: db}
}

// GetByCode gets an active shipping method by code
func (r *shippingMethodRepository) GetByCode(ctx context.Context, code string) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Where("is_active = ?", true).
		First(&method).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// List lists active shipping methods
func (r *shippingMethodRepository) List(ctx context.Context) ([]*models.ShippingMethod, error) {
	var methods []*models.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("rate_cents").
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}
