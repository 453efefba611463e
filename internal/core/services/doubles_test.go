package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/adapters/persistence/repositories"
	"partsdepot/internal/core/domain"
)

// In-memory repository doubles. They mirror the persistence layer's
// contract closely enough for service-level tests: not-found surfaces
// as gorm.ErrRecordNotFound, unique collisions as the domain sentinels,
// and PlaceOrder applies check-all-then-decrement under one lock.

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
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

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) SetActive(_ context.Context, id uint, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id uint, hashed string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = hashed
	return nil
}

func (r *memUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for id := uint(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type memRefreshTokenRepo struct {
	mu     sync.Mutex
	nextID uint
	tokens map[uint]*models.RefreshToken
}

func newMemRefreshTokenRepo() *memRefreshTokenRepo {
	return &memRefreshTokenRepo{tokens: make(map[uint]*models.RefreshToken)}
}

func (r *memRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	cp := *token
	r.tokens[token.ID] = &cp
	return nil
}

func (r *memRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[id]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *memRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *memRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *memRefreshTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tokens {
		if time.Now().After(t.ExpiresAt) {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

func (r *memRefreshTokenRepo) liveCount(userID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

type memPartRepo struct {
	mu     sync.Mutex
	nextID uint
	parts  map[uint]*models.Part
}

func newMemPartRepo() *memPartRepo {
	return &memPartRepo{parts: make(map[uint]*models.Part)}
}

func (r *memPartRepo) add(part models.Part) *models.Part {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	part.ID = r.nextID
	cp := part
	r.parts[part.ID] = &cp
	return &cp
}

func (r *memPartRepo) Create(_ context.Context, part *models.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.parts {
		if p.PartNumber == part.PartNumber {
			return domain.ErrDuplicateEntry
		}
	}
	r.nextID++
	part.ID = r.nextID
	cp := *part
	r.parts[part.ID] = &cp
	return nil
}

func (r *memPartRepo) GetByID(_ context.Context, id uint) (*models.Part, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPartRepo) GetByPartNumber(_ context.Context, number string) (*models.Part, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.parts {
		if p.PartNumber == number {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPartRepo) Update(_ context.Context, part *models.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parts[part.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *part
	r.parts[part.ID] = &cp
	return nil
}

func (r *memPartRepo) List(_ context.Context, filter repositories.ListPartsFilter, offset, limit int) ([]*models.Part, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Part, 0, len(r.parts))
	for id := uint(1); id <= r.nextID; id++ {
		p, ok := r.parts[id]
		if !ok || !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Brand != "" && p.Brand != filter.Brand {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memPartRepo) stock(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.parts[id].Stock
}

type memShippingRepo struct {
	methods map[string]*models.ShippingMethod
}

func newMemShippingRepo(methods ...models.ShippingMethod) *memShippingRepo {
	r := &memShippingRepo{methods: make(map[string]*models.ShippingMethod)}
	for i := range methods {
		m := methods[i]
		r.methods[m.Code] = &m
	}
	return r
}

func (r *memShippingRepo) GetByCode(_ context.Context, code string) (*models.ShippingMethod, error) {
	m, ok := r.methods[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memShippingRepo) List(_ context.Context) ([]*models.ShippingMethod, error) {
	out := make([]*models.ShippingMethod, 0, len(r.methods))
	for _, m := range r.methods {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

// memOrderRepo shares the part store so PlaceOrder can reproduce the
// real transaction's behavior: every line checked under one lock, stock
// decremented only when all lines pass.
type memOrderRepo struct {
	mu            sync.Mutex
	nextID        uint
	orders        map[uint]*models.Order
	numbers       map[string]bool
	parts         *memPartRepo
	conflictsLeft int
}

func newMemOrderRepo(parts *memPartRepo) *memOrderRepo {
	return &memOrderRepo{
		orders:  make(map[uint]*models.Order),
		numbers: make(map[string]bool),
		parts:   parts,
	}
}

func (r *memOrderRepo) PlaceOrder(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return domain.ErrOrderNumberConflict
	}
	if r.numbers[order.OrderNumber] {
		return domain.ErrOrderNumberConflict
	}

	r.parts.mu.Lock()
	defer r.parts.mu.Unlock()

	for _, item := range order.Items {
		part, ok := r.parts.parts[item.PartID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		if part.Stock < item.Quantity {
			return &domain.InsufficientStockError{
				PartID:    item.PartID,
				Available: part.Stock,
				Requested: item.Quantity,
			}
		}
	}
	for _, item := range order.Items {
		r.parts.parts[item.PartID].Stock -= item.Quantity
	}

	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	cp := *order
	r.orders[order.ID] = &cp
	r.numbers[order.OrderNumber] = true
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]*models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, 0)
	for id := uint(1); id <= r.nextID; id++ {
		if o, ok := r.orders[id]; ok && o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memOrderRepo) List(_ context.Context, status string, offset, limit int) ([]*models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, 0)
	for id := uint(1); id <= r.nextID; id++ {
		if o, ok := r.orders[id]; ok && (status == "" || o.Status == status) {
			cp := *o
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memOrderRepo) Update(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

type memQuoteRepo struct {
	mu     sync.Mutex
	nextID uint
	quotes map[uint]*models.Quote
}

func newMemQuoteRepo() *memQuoteRepo {
	return &memQuoteRepo{quotes: make(map[uint]*models.Quote)}
}

func (r *memQuoteRepo) Create(_ context.Context, quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.QuoteNumber == quote.QuoteNumber {
			return domain.ErrDuplicateEntry
		}
	}
	r.nextID++
	quote.ID = r.nextID
	quote.CreatedAt = time.Now()
	cp := *quote
	r.quotes[quote.ID] = &cp
	return nil
}

func (r *memQuoteRepo) GetByID(_ context.Context, id uint) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *memQuoteRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]*models.Quote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Quote, 0)
	for id := uint(1); id <= r.nextID; id++ {
		if q, ok := r.quotes[id]; ok && q.UserID == userID {
			cp := *q
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memQuoteRepo) List(_ context.Context, status string, offset, limit int) ([]*models.Quote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Quote, 0)
	for id := uint(1); id <= r.nextID; id++ {
		if q, ok := r.quotes[id]; ok && (status == "" || q.Status == status) {
			cp := *q
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memQuoteRepo) Update(_ context.Context, quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[quote.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *quote
	r.quotes[quote.ID] = &cp
	return nil
}

func (r *memQuoteRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, q := range r.quotes {
		if q.Status == domain.QuoteStatusOpen && now.After(q.ValidUntil) {
			q.Status = domain.QuoteStatusExpired
			n++
		}
	}
	return n, nil
}

var (
	_ repositories.UserRepository           = (*memUserRepo)(nil)
	_ repositories.RefreshTokenRepository   = (*memRefreshTokenRepo)(nil)
	_ repositories.PartRepository           = (*memPartRepo)(nil)
	_ repositories.ShippingMethodRepository = (*memShippingRepo)(nil)
	_ repositories.OrderRepository          = (*memOrderRepo)(nil)
	_ repositories.QuoteRepository          = (*memQuoteRepo)(nil)
)
