package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/adapters/persistence/repositories"
	"partsdepot/internal/core/domain"
)

// quoteValidityDays is how long an issued quote stays open
const quoteValidityDays = 30

// QuoteService handles quote business logic
type QuoteService struct {
	quoteRepo repositories.QuoteRepository
	partRepo  repositories.PartRepository
	userRepo  repositories.UserRepository
	orders    *OrderService
	notify    *NotificationService
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo repositories.QuoteRepository,
	partRepo repositories.PartRepository,
	userRepo repositories.UserRepository,
	orders *OrderService,
	notify *NotificationService,
) *QuoteService {
	return &QuoteService{
		quoteRepo: quoteRepo,
		partRepo:  partRepo,
		userRepo:  userRepo,
		orders:    orders,
		notify:    notify,
	}
}

// CreateQuoteInput represents create quote input
type CreateQuoteInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1"`
}

// CreateQuote prices the requested lines against the current catalog
// and issues a quote. Quotes snapshot prices but do not reserve stock.
func (s *QuoteService) CreateQuote(ctx context.Context, userID uint, input *CreateQuoteInput) (*models.Quote, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	items := make([]models.QuoteItem, 0, len(input.Items))
	var subtotal int64
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
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

		lineSubtotal := part.PriceCents * int64(line.Quantity)
		items = append(items, models.QuoteItem{
			PartID:        part.ID,
			PartNumber:    part.PartNumber,
			PartName:      part.Name,
			UnitCents:     part.PriceCents,
			Quantity:      line.Quantity,
			SubtotalCents: lineSubtotal,
		})
		subtotal += lineSubtotal
	}

	quote := &models.Quote{
		UserID:        userID,
		Status:        domain.QuoteStatusOpen,
		SubtotalCents: subtotal,
		ValidUntil:    time.Now().Add(quoteValidityDays * 24 * time.Hour),
		Items:         items,
	}

	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		quote.QuoteNumber = GenerateDocumentNumber("QUO")
		err = s.quoteRepo.Create(ctx, quote)
		if errors.Is(err, domain.ErrDuplicateEntry) {
			quote.ID = 0
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Quote created: %s (user %d)", quote.QuoteNumber, userID)

	if user, uerr := s.userRepo.GetByID(ctx, userID); uerr == nil {
		s.notify.NotifyQuoteCreated(user.Email, quote)
	}

	return quote, nil
}

// GetQuote gets one quote by ID
func (s *QuoteService) GetQuote(ctx context.Context, id uint) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, err
	}
	return quote, nil
}

// ListQuotesByUser lists a user's quotes
func (s *QuoteService) ListQuotesByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Quote, int64, error) {
	return s.quoteRepo.ListByUser(ctx, userID, offset, limit)
}

// ListQuotes lists all quotes, optionally by status (admin)
func (s *QuoteService) ListQuotes(ctx context.Context, status string, offset, limit int) ([]*models.Quote, int64, error) {
	return s.quoteRepo.List(ctx, status, offset, limit)
}

// ConvertToOrder places an order from an open, unexpired quote and
// marks the quote converted. The order transaction itself is the
// standard PlaceOrder path: stock is checked at conversion time, and
// parts are re-priced against the current catalog.
func (s *QuoteService) ConvertToOrder(ctx context.Context, userID uint, quoteID uint, shippingCode string, payment PaymentInput) (*models.Order, error) {
	quote, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.UserID != userID {
		return nil, domain.ErrQuoteNotFound
	}
	if quote.Status != domain.QuoteStatusOpen {
		return nil, domain.ErrQuoteNotOpen
	}
	if time.Now().After(quote.ValidUntil) {
		return nil, domain.ErrQuoteExpired
	}

	items := make([]OrderItemInput, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, OrderItemInput{PartID: item.PartID, Quantity: item.Quantity})
	}

	order, err := s.orders.PlaceOrder(ctx, userID, &PlaceOrderInput{
		Items:        items,
		ShippingCode: shippingCode,
		Payment:      payment,
	})
	if err != nil {
		return nil, err
	}

	quote.Status = domain.QuoteStatusConverted
	quote.OrderID = &order.ID
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		// The order is already committed; the quote flag is advisory
		// bookkeeping, so log and move on.
		log.Printf("⚠️ Failed to mark quote %s converted: %v", quote.QuoteNumber, err)
	}

	log.Printf("✅ Quote %s converted to order %s", quote.QuoteNumber, order.OrderNumber)
	return order, nil
}
