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

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// UpdateOrderStatusRequest represents status update request body
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Place handles order placement
// @Summary Place order
// @Description Validate the cart, price it, and commit order plus stock decrements atomically
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PlaceOrderInput true "Order data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input services.PlaceOrderInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.orderService.PlaceOrder(c.Context(), userID, &input)
	if err != nil {
		var stockErr *domain.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			return response.ErrorWithDetails(c, fiber.StatusBadRequest, "Insufficient stock", fiber.Map{
				"part_id":   stockErr.PartID,
				"available": stockErr.Available,
				"requested": stockErr.Requested,
			})
		case errors.Is(err, domain.ErrEmptyOrder):
			return response.BadRequest(c, "Order must contain at least one item")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid order data")
		case errors.Is(err, domain.ErrShippingMethodNotFound):
			return response.BadRequest(c, "Unknown shipping method")
		case errors.Is(err, domain.ErrPartNotFound):
			// A cart referencing an unknown part is a bad request, not a
			// missing resource.
			return response.BadRequest(c, "Unknown part in order")
		case errors.Is(err, domain.ErrPartInactive):
			return response.BadRequest(c, "Part is no longer available")
		default:
			return response.InternalServerError(c, "Failed to place order")
		}
	}

	return response.Created(c, "Order placed successfully", order)
}

// ListMine handles listing the caller's own orders
// @Summary List my orders
// @Description List the authenticated user's orders, newest first
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} pagination.Response
// @Router /orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	params := pagination.GetParams(c)

	orders, total, err := h.orderService.ListOrdersByUser(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list orders")
	}

	return c.JSON(pagination.NewResponse(orders, params, total))
}

// Get handles single order lookup with ownership check
// @Summary Get order
// @Description Get one order; non-admin callers may only read their own
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	order, err := h.orderService.GetOrder(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to get order")
	}

	userID := c.Locals("userID").(uint)
	role := domain.Role(c.Locals("role").(string))
	if order.UserID != userID && !role.Satisfies(domain.RoleAdmin) {
		return response.Forbidden(c, "Access denied")
	}

	return response.Success(c, "Order retrieved successfully", order)
}

// ListAll handles listing all orders (admin)
// @Summary List all orders
// @Description List every order, optionally filtered by status
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Status filter"
// @Success 200 {object} pagination.Response
// @Router /admin/orders [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	orders, total, err := h.orderService.ListOrders(c.Context(), c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list orders")
	}

	return c.JSON(pagination.NewResponse(orders, params, total))
}

// UpdateStatus handles status transitions (admin)
// @Summary Update order status
// @Description Drive an order through its status machine
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param body body UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	order, err := h.orderService.UpdateStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		case errors.Is(err, domain.ErrInvalidStatusTransition):
			return response.BadRequest(c, "Invalid status transition")
		default:
			return response.InternalServerError(c, "Failed to update order status")
		}
	}

	return response.Success(c, "Order status updated successfully", order)
}
