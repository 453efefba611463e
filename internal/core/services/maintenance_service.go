package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"partsdepot/internal/adapters/persistence/repositories"
)

// MaintenanceService runs scheduled housekeeping: purging expired
// refresh tokens and expiring stale quotes. Both jobs run daily.
type MaintenanceService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	quoteRepo        repositories.QuoteRepository
	cron             *cron.Cron
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	quoteRepo repositories.QuoteRepository,
) *MaintenanceService {
	return &MaintenanceService{
		refreshTokenRepo: refreshTokenRepo,
		quoteRepo:        quoteRepo,
		cron:             cron.New(),
	}
}

// Start registers the jobs and starts the scheduler
func (s *MaintenanceService) Start() {
	// 03:30 daily, after the nightly backup window.
	s.cron.AddFunc("30 3 * * *", s.runCleanup)
	s.cron.Start()
	log.Println("✅ Maintenance scheduler started (daily 03:30)")
}

// Stop stops the scheduler
func (s *MaintenanceService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Maintenance scheduler stopped")
}

// runCleanup executes one housekeeping pass
func (s *MaintenanceService) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if n, err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Failed to purge expired refresh tokens: %v", err)
	} else if n > 0 {
		log.Printf("✅ Purged %d expired refresh tokens", n)
	}

	if n, err := s.quoteRepo.ExpireStale(ctx, time.Now()); err != nil {
		log.Printf("❌ Failed to expire stale quotes: %v", err)
	} else if n > 0 {
		log.Printf("✅ Expired %d stale quotes", n)
	}
}
