package config

import (
	"log"
	"strings"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/core/domain"
	"partsdepot/internal/pkg/password"
)

// SeedMasterData seeds shipping methods and the bootstrap admin account.
// Seeding is idempotent: existing rows are left untouched.
func SeedMasterData(db *gorm.DB) error {
	if err := seedShippingMethods(db); err != nil {
		return err
	}
	return seedAdminUser(db)
}

// seedShippingMethods inserts the default shipping options
func seedShippingMethods(db *gorm.DB) error {
	methods := []models.ShippingMethod{
		{Code: "standard", Name: "Standard Ground (3-5 days)", RateCents: 1000, IsActive: true},
		{Code: "express", Name: "Express (1-2 days)", RateCents: 2500, IsActive: true},
		{Code: "pickup", Name: "Counter Pickup", RateCents: 0, IsActive: true},
	}

	for _, m := range methods {
		var count int64
		if err := db.Model(&models.ShippingMethod{}).Where("code = ?", m.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&m).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded shipping method: %s", m.Code)
	}

	return nil
}

// seedAdminUser creates the bootstrap admin when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no admin exists yet.
func seedAdminUser(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "")))
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(pass)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:         email,
		Password:      hashed,
		Role:          string(domain.RoleAdmin),
		IsActive:      true,
		EmailVerified: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded admin user: %s", email)
	return nil
}
