package models

import (
	"time"

	"gorm.io/gorm"

	"partsdepot/internal/core/domain"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Email         string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	Role          string         `gorm:"size:20;default:'user'" json:"role"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	EmailVerified bool           `gorm:"default:false" json:"email_verified"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table. One row per live
// session; presenting a token whose hash has no live row fails refresh
// even when the signature is still valid.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Part represents parts table. Prices are integer minor currency units
// (cents); stock is the authoritative on-hand count and must never go
// negative.
type Part struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PartNumber  string         `gorm:"uniqueIndex;size:50;not null" json:"part_number"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Brand       string         `gorm:"size:100;index" json:"brand"`
	Category    string         `gorm:"size:100;index" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	PriceCents  int64          `gorm:"not null" json:"price_cents"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Part) TableName() string {
	return "parts"
}

// ShippingMethod represents shipping_methods table (seeded master data)
type ShippingMethod struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	RateCents int64     `gorm:"not null" json:"rate_cents"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ShippingMethod) TableName() string {
	return "shipping_methods"
}

// ============================================================
// Order Tables
// ============================================================

// Order represents orders table. Line items snapshot the part data at
// commit time so historical orders are immune to later catalog edits.
// Invariant: TotalCents == SubtotalCents + ShippingCents + TaxCents.
type Order struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OrderNumber   string     `gorm:"uniqueIndex;size:30;not null" json:"order_number"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Status        string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	SubtotalCents int64      `gorm:"not null" json:"subtotal_cents"`
	ShippingCents int64      `gorm:"not null" json:"shipping_cents"`
	TaxCents      int64      `gorm:"not null" json:"tax_cents"`
	TotalCents    int64      `gorm:"not null" json:"total_cents"`
	ShippingCode  string     `gorm:"size:20;not null" json:"shipping_code"`

	// Payment sub-record. Recorded only; gateway processing happens
	// outside this service.
	PaymentMethod   string `gorm:"size:30" json:"payment_method"`
	PaymentStatus   string `gorm:"size:20;default:'unpaid'" json:"payment_status"`
	PaymentIntentID string `gorm:"size:100" json:"payment_intent_id"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User  *User       `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem represents order_items table: a snapshot of one part line
// at commit time, not a live reference.
type OrderItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OrderID       uint   `gorm:"index;not null" json:"order_id"`
	PartID        uint   `gorm:"not null" json:"part_id"`
	PartNumber    string `gorm:"size:50;not null" json:"part_number"`
	PartName      string `gorm:"size:200;not null" json:"part_name"`
	UnitCents     int64  `gorm:"not null" json:"unit_cents"`
	Quantity      int    `gorm:"not null" json:"quantity"`
	SubtotalCents int64  `gorm:"not null" json:"subtotal_cents"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// StampStatus records the timestamp matching a status transition.
func (o *Order) StampStatus(status string, at time.Time) {
	switch status {
	case domain.OrderStatusConfirmed:
		o.ConfirmedAt = &at
	case domain.OrderStatusShipped:
		o.ShippedAt = &at
	case domain.OrderStatusDelivered:
		o.DeliveredAt = &at
	case domain.OrderStatusCancelled:
		o.CancelledAt = &at
	}
}

// ============================================================
// Quote Tables
// ============================================================

// Quote represents quotes table. Like orders, line items are price
// snapshots taken when the quote is issued.
type Quote struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	QuoteNumber   string     `gorm:"uniqueIndex;size:30;not null" json:"quote_number"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Status        string     `gorm:"size:20;not null;default:'open';index" json:"status"`
	SubtotalCents int64      `gorm:"not null" json:"subtotal_cents"`
	ValidUntil    time.Time  `gorm:"not null" json:"valid_until"`
	OrderID       *uint      `json:"order_id"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User  *User       `gorm:"foreignKey:UserID" json:"-"`
	Items []QuoteItem `gorm:"foreignKey:QuoteID" json:"items"`
}

func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem represents quote_items table
type QuoteItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	QuoteID       uint   `gorm:"index;not null" json:"quote_id"`
	PartID        uint   `gorm:"not null" json:"part_id"`
	PartNumber    string `gorm:"size:50;not null" json:"part_number"`
	PartName      string `gorm:"size:200;not null" json:"part_name"`
	UnitCents     int64  `gorm:"not null" json:"unit_cents"`
	Quantity      int    `gorm:"not null" json:"quantity"`
	SubtotalCents int64  `gorm:"not null" json:"subtotal_cents"`
}

func (QuoteItem) TableName() string {
	return "quote_items"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Part{},
		&ShippingMethod{},
		&Order{},
		&OrderItem{},
		&Quote{},
		&QuoteItem{},
	)
}
