package repositories

import (
	"context"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
)

// partRepository implements PartRepository interface
type partRepository struct {
	db *gorm.DB
}

// NewPartRepository creates a new part repository
func NewPartRepository(db *gorm.DB) PartRepository {
	return &partRepository{db: db}
}

// Create creates a new part
func (r *partRepository) Create(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// GetByID gets a part by ID
func (r *partRepository) GetByID(ctx context.Context, id uint) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

// GetByPartNumber gets a part by its part number
func (r *partRepository) GetByPartNumber(ctx context.Context, number string) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).Where("part_number = ?", number).First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

// Update updates a part
func (r *partRepository) Update(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

// List lists active parts with filtering and pagination
func (r *partRepository) List(ctx context.Context, filter ListPartsFilter, offset, limit int) ([]*models.Part, int64, error) {
	var parts []*models.Part
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Part{}).Where("is_active = ?", true)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR part_number LIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Offset(offset).Limit(limit).Order("part_number").Find(&parts).Error; err != nil {
		return nil, 0, err
	}

	return parts, total, nil
}
