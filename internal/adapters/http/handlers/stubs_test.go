package handlers

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/adapters/persistence/repositories"
)

// In-memory repository stubs shared by the handler tests. They carry
// just enough state for the flows under test; everything behind a
// write path assigns IDs so the services see persisted-looking rows.

type stubUsers struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newStubUsers(users ...*models.User) *stubUsers {
	m := make(map[uint]*models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &stubUsers{users: m}
}

func (r *stubUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *stubUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsers) Update(context.Context, *models.User) error         { return nil }
func (r *stubUsers) SetActive(_ context.Context, id uint, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsActive = active
	}
	return nil
}
func (r *stubUsers) UpdatePassword(context.Context, uint, string) error { return nil }
func (r *stubUsers) List(context.Context, int, int) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (r *stubUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

type stubRefreshTokens struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]*models.RefreshToken
}

func newStubRefreshTokens() *stubRefreshTokens {
	return &stubRefreshTokens{rows: make(map[string]*models.RefreshToken)}
}

func (r *stubRefreshTokens) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = r.nextID
	cp := *token
	r.rows[token.TokenHash] = &cp
	return nil
}

func (r *stubRefreshTokens) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[tokenHash]; ok && row.RevokedAt == nil {
		cp := *row
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRefreshTokens) Revoke(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			now := time.Now()
			row.RevokedAt = &now
		}
	}
	return nil
}

func (r *stubRefreshTokens) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[tokenHash]; ok {
		now := time.Now()
		row.RevokedAt = &now
	}
	return nil
}

func (r *stubRefreshTokens) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID {
			now := time.Now()
			row.RevokedAt = &now
		}
	}
	return nil
}

func (r *stubRefreshTokens) DeleteExpired(context.Context) (int64, error) { return 0, nil }

type stubParts struct {
	parts map[uint]*models.Part
}

func newStubParts(parts ...*models.Part) *stubParts {
	m := make(map[uint]*models.Part, len(parts))
	for _, p := range parts {
		m[p.ID] = p
	}
	return &stubParts{parts: m}
}

func (r *stubParts) Create(context.Context, *models.Part) error { return nil }

func (r *stubParts) GetByID(_ context.Context, id uint) (*models.Part, error) {
	if p, ok := r.parts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubParts) GetByPartNumber(context.Context, string) (*models.Part, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubParts) Update(context.Context, *models.Part) error { return nil }
func (r *stubParts) List(context.Context, repositories.ListPartsFilter, int, int) ([]*models.Part, int64, error) {
	return nil, 0, nil
}

type stubShipping struct {
	methods []*models.ShippingMethod
}

func newStubShipping(methods ...*models.ShippingMethod) *stubShipping {
	return &stubShipping{methods: methods}
}

func (r *stubShipping) GetByCode(_ context.Context, code string) (*models.ShippingMethod, error) {
	for _, m := range r.methods {
		if m.Code == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubShipping) List(context.Context) ([]*models.ShippingMethod, error) {
	return r.methods, nil
}

type stubOrders struct {
	mu     sync.Mutex
	nextID uint
}

func (r *stubOrders) PlaceOrder(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	return nil
}

func (r *stubOrders) GetByID(context.Context, uint) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubOrders) ListByUser(context.Context, uint, int, int) ([]*models.Order, int64, error) {
	return nil, 0, nil
}
func (r *stubOrders) List(context.Context, string, int, int) ([]*models.Order, int64, error) {
	return nil, 0, nil
}
func (r *stubOrders) Update(context.Context, *models.Order) error { return nil }

type stubQuotes struct {
	mu     sync.Mutex
	nextID uint
	quotes map[uint]*models.Quote
}

func newStubQuotes(quotes ...*models.Quote) *stubQuotes {
	m := make(map[uint]*models.Quote, len(quotes))
	var max uint
	for _, q := range quotes {
		m[q.ID] = q
		if q.ID > max {
			max = q.ID
		}
	}
	return &stubQuotes{quotes: m, nextID: max}
}

func (r *stubQuotes) Create(_ context.Context, quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	quote.ID = r.nextID
	r.quotes[quote.ID] = quote
	return nil
}

func (r *stubQuotes) GetByID(_ context.Context, id uint) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.quotes[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubQuotes) ListByUser(context.Context, uint, int, int) ([]*models.Quote, int64, error) {
	return nil, 0, nil
}
func (r *stubQuotes) List(context.Context, string, int, int) ([]*models.Quote, int64, error) {
	return nil, 0, nil
}
func (r *stubQuotes) Update(context.Context, *models.Quote) error { return nil }
func (r *stubQuotes) ExpireStale(context.Context, time.Time) (int64, error) {
	return 0, nil
}

var (
	_ repositories.UserRepository           = (*stubUsers)(nil)
	_ repositories.RefreshTokenRepository   = (*stubRefreshTokens)(nil)
	_ repositories.PartRepository           = (*stubParts)(nil)
	_ repositories.ShippingMethodRepository = (*stubShipping)(nil)
	_ repositories.OrderRepository          = (*stubOrders)(nil)
	_ repositories.QuoteRepository          = (*stubQuotes)(nil)
)
