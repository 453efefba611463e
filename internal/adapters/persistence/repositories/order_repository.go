package repositories

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/core/domain"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

// orderRepository implements OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// PlaceOrder inserts the order with its items and decrements stock for
// every line, all inside one transaction. The decrement is conditional
// ("stock >= quantity") so two concurrent orders for the last unit
// cannot both pass: the loser sees zero rows affected, the transaction
// rolls back, and nothing is persisted.
func (r *orderRepository) PlaceOrder(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			res := tx.Model(&models.Part{}).
				Where("id = ? AND stock >= ?", item.PartID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				available := 0
				var part models.Part
				if err := tx.Select("stock").Where("id = ?", item.PartID).First(&part).Error; err == nil {
					available = part.Stock
				}
				return &domain.InsufficientStockError{
					PartID:    item.PartID,
					Available: available,
					Requested: item.Quantity,
				}
			}
		}

		return nil
	})
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return domain.ErrOrderNumberConflict
		}
		return err
	}
	return nil
}

// GetByID gets an order with its items
func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser lists a user's orders with pagination
func (r *orderRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// List lists all orders, optionally filtered by status (admin view)
func (r *orderRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Update updates an order
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}
