package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"partsdepot/internal/core/domain"
	"partsdepot/internal/core/services"
	"partsdepot/internal/pkg/pagination"
	"partsdepot/internal/pkg/response"
)

// QuoteHandler handles quote endpoints
type QuoteHandler struct {
	quoteService *services.QuoteService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// ConvertQuoteRequest represents quote conversion request body
type ConvertQuoteRequest struct {
	ShippingCode string                `json:"shipping_code"`
	Payment      services.PaymentInput `json:"payment"`
}

// Create handles quote creation
// @Summary Create quote
// @Description Price the requested lines against the current catalog and issue a quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateQuoteInput true "Quote lines"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input services.CreateQuoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	quote, err := h.quoteService.CreateQuote(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyOrder):
			return response.BadRequest(c, "Quote must contain at least one item")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid quote data")
		case errors.Is(err, domain.ErrPartNotFound):
			return response.BadRequest(c, "Unknown part in quote")
		case errors.Is(err, domain.ErrPartInactive):
			return response.BadRequest(c, "Part is no longer available")
		default:
			return response.InternalServerError(c, "Failed to create quote")
		}
	}

	return response.Created(c, "Quote created successfully", quote)
}

// ListMine handles listing the caller's own quotes
// @Summary List my quotes
// @Description List the authenticated user's quotes, newest first
// @Tags Quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} pagination.Response
// @Router /quotes [get]
func (h *QuoteHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	params := pagination.GetParams(c)

	quotes, total, err := h.quoteService.ListQuotesByUser(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list quotes")
	}

	return c.JSON(pagination.NewResponse(quotes, params, total))
}

// Get handles single quote lookup with ownership check
// @Summary Get quote
// @Description Get one quote; non-admin callers may only read their own
// @Tags Quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quote ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /quotes/{id} [get]
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid quote ID")
	}

	quote, err := h.quoteService.GetQuote(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrQuoteNotFound) {
			return response.NotFound(c, "Quote not found")
		}
		return response.InternalServerError(c, "Failed to get quote")
	}

	userID := c.Locals("userID").(uint)
	role := domain.Role(c.Locals("role").(string))
	if quote.UserID != userID && !role.Satisfies(domain.RoleAdmin) {
		return response.Forbidden(c, "Access denied")
	}

	return response.Success(c, "Quote retrieved successfully", quote)
}

// Convert handles turning an open quote into an order
// @Summary Convert quote to order
// @Description Re-price the quote lines against the current catalog and place the order
// @Tags Quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quote ID"
// @Param body body ConvertQuoteRequest true "Shipping and payment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid quote ID")
	}

	var req ConvertQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ShippingCode == "" {
		return response.BadRequest(c, "Shipping code is required")
	}

	userID := c.Locals("userID").(uint)

	order, err := h.quoteService.ConvertToOrder(c.Context(), userID, uint(id), req.ShippingCode, req.Payment)
	if err != nil {
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			return response.ErrorWithDetails(c, fiber.StatusBadRequest, "Insufficient stock", fiber.Map{
				"part_id":   stockErr.PartID,
				"available": stockErr.Available,
				"requested": stockErr.Requested,
			})
		case errors.Is(err, domain.ErrQuoteNotFound):
			return response.NotFound(c, "Quote not found")
		case errors.Is(err, domain.ErrQuoteNotOpen):
			return response.BadRequest(c, "Quote has already been converted or expired")
		case errors.Is(err, domain.ErrQuoteExpired):
			return response.BadRequest(c, "Quote has expired")
		case errors.Is(err, domain.ErrShippingMethodNotFound):
			return response.BadRequest(c, "Unknown shipping method")
		case errors.Is(err, domain.ErrPartNotFound):
			return response.BadRequest(c, "Unknown part in quote")
		case errors.Is(err, domain.ErrPartInactive):
			return response.BadRequest(c, "Part is no longer available")
		default:
			return response.InternalServerError(c, "Failed to convert quote")
		}
	}

	return response.Created(c, "Quote converted successfully", order)
}

// ListAll handles listing all quotes (admin)
// @Summary List all quotes
// @Description List every quote, optionally filtered by status
// @Tags Quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Status filter"
// @Success 200 {object} pagination.Response
// @Router /admin/quotes [get]
func (h *QuoteHandler) ListAll(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	quotes, total, err := h.quoteService.ListQuotes(c.Context(), c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list quotes")
	}

	return c.JSON(pagination.NewResponse(quotes, params, total))
}
