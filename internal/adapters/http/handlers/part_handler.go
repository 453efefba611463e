package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/adapters/persistence/repositories"
	"partsdepot/internal/pkg/pagination"
	"partsdepot/internal/pkg/response"
)

// PartHandler handles catalog endpoints
type PartHandler struct {
	partRepo     repositories.PartRepository
	shippingRepo repositories.ShippingMethodRepository
}

// NewPartHandler creates a new part handler
func NewPartHandler(partRepo repositories.PartRepository, shippingRepo repositories.ShippingMethodRepository) *PartHandler {
	return &PartHandler{
		partRepo:     partRepo,
		shippingRepo: shippingRepo,
	}
}

// CreatePartRequest represents create part request body
type CreatePartRequest struct {
	PartNumber  string `json:"part_number"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
}

// UpdatePartRequest represents update part request body
type UpdatePartRequest struct {
	Name        *string `json:"name"`
	Brand       *string `json:"brand"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Stock       *int    `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

// List handles catalog listing with filters
// @Summary List parts
// @Description List active parts with pagination and category/brand/search filters
// @Tags Catalog
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param category query string false "Category filter"
// @Param brand query string false "Brand filter"
// @Param search query string false "Name/part-number search"
// @Success 200 {object} pagination.Response
// @Router /parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := repositories.ListPartsFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
	}

	parts, total, err := h.partRepo.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list parts")
	}

	return c.JSON(pagination.NewResponse(parts, params, total))
}

// Get handles single part lookup
// @Summary Get part
// @Description Get one part by ID
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Part ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parts/{id} [get]
func (h *PartHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid part ID")
	}

	part, err := h.partRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Part not found")
		}
		return response.InternalServerError(c, "Failed to get part")
	}

	return response.Success(c, "Part retrieved successfully", part)
}

// ListShippingMethods handles shipping method listing
// @Summary List shipping methods
// @Description List active shipping options with their rates
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /shipping-methods [get]
func (h *PartHandler) ListShippingMethods(c *fiber.Ctx) error {
	methods, err := h.shippingRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list shipping methods")
	}

	return response.Success(c, "Shipping methods retrieved successfully", methods)
}

// Create handles part creation (admin)
// @Summary Create part
// @Description Create a new catalog part
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePartRequest true "Part data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var req CreatePartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.PartNumber = strings.TrimSpace(req.PartNumber)
	if req.PartNumber == "" || req.Name == "" {
		return response.BadRequest(c, "Part number and name are required")
	}
	if req.PriceCents < 0 || req.Stock < 0 {
		return response.BadRequest(c, "Price and stock must be non-negative")
	}

	if _, err := h.partRepo.GetByPartNumber(c.Context(), req.PartNumber); err == nil {
		return response.Conflict(c, "Part number already exists")
	}

	part := &models.Part{
		PartNumber:  req.PartNumber,
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		IsActive:    true,
	}

	if err := h.partRepo.Create(c.Context(), part); err != nil {
		return response.InternalServerError(c, "Failed to create part")
	}

	return response.Created(c, "Part created successfully", part)
}

// Update handles part edits (admin)
// @Summary Update part
// @Description Update catalog part fields
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Part ID"
// @Param body body UpdatePartRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid part ID")
	}

	part, err := h.partRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Part not found")
		}
		return response.InternalServerError(c, "Failed to get part")
	}

	var req UpdatePartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		part.Name = *req.Name
	}
	if req.Brand != nil {
		part.Brand = *req.Brand
	}
	if req.Category != nil {
		part.Category = *req.Category
	}
	if req.Description != nil {
		part.Description = *req.Description
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return response.BadRequest(c, "Price must be non-negative")
		}
		part.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return response.BadRequest(c, "Stock must be non-negative")
		}
		part.Stock = *req.Stock
	}
	if req.IsActive != nil {
		part.IsActive = *req.IsActive
	}

	if err := h.partRepo.Update(c.Context(), part); err != nil {
		return response.InternalServerError(c, "Failed to update part")
	}

	return response.Success(c, "Part updated successfully", part)
}
