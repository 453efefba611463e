package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/adapters/persistence/repositories"
	"partsdepot/internal/config"
	"partsdepot/internal/core/domain"
)

// orderNumberAttempts bounds the retry loop on order-number conflicts
const orderNumberAttempts = 3

// OrderService converts validated carts into committed, priced orders
type OrderService struct {
	orderRepo    repositories.OrderRepository
	partRepo     repositories.PartRepository
	shippingRepo repositories.ShippingMethodRepository
	userRepo     repositories.UserRepository
	notify       *NotificationService
	cfg          *config.Config
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repositories.OrderRepository,
	partRepo repositories.PartRepository,
	shippingRepo repositories.ShippingMethodRepository,
	userRepo repositories.UserRepository,
	notify *NotificationService,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		partRepo:     partRepo,
		shippingRepo: shippingRepo,
		userRepo:     userRepo,
		notify:       notify,
		cfg:          cfg,
	}
}

// OrderItemInput is one requested cart line
type OrderItemInput struct {
	PartID   uint `json:"part_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

// PaymentInput is the payment sub-record submitted with the order
type PaymentInput struct {
	Method   string `json:"method"`
	Status   string `json:"status"`
	IntentID string `json:"intent_id"`
}

// PlaceOrderInput represents place order input
type PlaceOrderInput struct {
	Items        []OrderItemInput `json:"items" validate:"required,min=1"`
	ShippingCode string           `json:"shipping_code" validate:"required"`
	Payment      PaymentInput     `json:"payment"`
}

// PlaceOrder validates the cart, prices it in integer cents, and
// commits order plus stock decrements. Steps 1-3 are pure reads and the
// whole operation fails before any write when a line cannot be
// satisfied; the final commit re-checks stock atomically inside the
// repository transaction, which closes the read-then-write race between
// concurrent orders.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, input *PlaceOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	// 1. Resolve the shipping option; its rate is validated non-negative.
	method, err := s.shippingRepo.GetByCode(ctx, input.ShippingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShippingMethodNotFound
		}
		return nil, err
	}
	if method.RateCents < 0 {
		return nil, domain.ErrInvalidInput
	}

	// 2. Look up every part and pre-check stock for all lines before
	// any mutation. A failure on line 3 must not leave lines 1-2
	// decremented.
	items := make([]models.OrderItem, 0, len(input.Items))
	var subtotal int64
	for _, line := range input.Items {
		part, err := s.partRepo.GetByID(ctx, line.PartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrPartNotFound
			}
			return nil, err
		}
		if !part.IsActive {
			return nil, domain.ErrPartInactive
		}
		if part.Stock < line.Quantity {
			return nil, &domain.InsufficientStockError{
				PartID:    part.ID,
				Available: part.Stock,
				Requested: line.Quantity,
			}
		}

		lineSubtotal := part.PriceCents * int64(line.Quantity)
		items = append(items, models.OrderItem{
			PartID:        part.ID,
			PartNumber:    part.PartNumber,
			PartName:      part.Name,
			UnitCents:     part.PriceCents,
			Quantity:      line.Quantity,
			SubtotalCents: lineSubtotal,
		})
		subtotal += lineSubtotal
	}

	// 3. Price the order: exact integer arithmetic throughout.
	shipping := method.RateCents
	tax := ComputeTax(subtotal, s.cfg.Order.TaxRateBasisPoints)
	total := subtotal + shipping + tax

	// 4. Initial status depends on whether payment was already captured.
	status := domain.OrderStatusPending
	paymentStatus := domain.PaymentStatusUnpaid
	if input.Payment.Status == domain.PaymentStatusPaid {
		status = domain.OrderStatusConfirmed
		paymentStatus = domain.PaymentStatusPaid
	}

	order := &models.Order{
		UserID:          userID,
		Status:          status,
		SubtotalCents:   subtotal,
		ShippingCents:   shipping,
		TaxCents:        tax,
		TotalCents:      total,
		ShippingCode:    method.Code,
		PaymentMethod:   input.Payment.Method,
		PaymentStatus:   paymentStatus,
		PaymentIntentID: input.Payment.IntentID,
		Items:           items,
	}
	if status == domain.OrderStatusConfirmed {
		order.StampStatus(domain.OrderStatusConfirmed, time.Now())
	}

	// 5. Commit. The order number is probabilistically unique; the
	// unique index is authoritative and a conflict just means we draw
	// a new number and try again.
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = GenerateDocumentNumber("ORD")
		err = s.orderRepo.PlaceOrder(ctx, order)
		if errors.Is(err, domain.ErrOrderNumberConflict) {
			order.ID = 0
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Order placed: %s (user %d, total %d cents)", order.OrderNumber, userID, total)

	// 6. Confirmation mail is best effort.
	if user, uerr := s.userRepo.GetByID(ctx, userID); uerr == nil {
		s.notify.NotifyOrderPlaced(user.Email, order)
	}

	return order, nil
}

// ComputeTax computes tax in cents from a subtotal and a rate in basis
// points (1500 = 15%). Integer arithmetic keeps
// total == subtotal + shipping + tax exact.
func ComputeTax(subtotalCents, rateBasisPoints int64) int64 {
	return subtotalCents * rateBasisPoints / 10000
}

// GetOrder gets one order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListOrdersByUser lists a user's orders
func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Order, int64, error) {
	return s.orderRepo.ListByUser(ctx, userID, offset, limit)
}

// ListOrders lists all orders, optionally by status (admin)
func (s *OrderService) ListOrders(ctx context.Context, status string, offset, limit int) ([]*models.Order, int64, error) {
	return s.orderRepo.List(ctx, status, offset, limit)
}

// UpdateStatus moves an order along the status machine (admin-driven).
// Each admissible transition stamps its timestamp field.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, newStatus string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransitionOrder(order.Status, newStatus) {
		return nil, domain.ErrInvalidStatusTransition
	}

	order.Status = newStatus
	order.StampStatus(newStatus, time.Now())
	if newStatus == domain.OrderStatusRefunded {
		order.PaymentStatus = domain.PaymentStatusRefunded
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s status -> %s", order.OrderNumber, newStatus)

	if user, uerr := s.userRepo.GetByID(ctx, order.UserID); uerr == nil {
		s.notify.NotifyOrderStatus(user.Email, order)
	}

	return order, nil
}
