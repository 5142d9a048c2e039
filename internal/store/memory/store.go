// Package memory keeps every collection in process memory. It backs the
// "memory" store driver used for local development and the handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
)

type Store struct {
	mu           sync.RWMutex
	users        []domain.User
	menu         []domain.MenuItem
	reviews      []domain.Review
	carts        []domain.CartItem
	payments     []domain.Payment
	transactions bool
}

type Options struct {
	// Transactions makes WithTransaction roll back on error, emulating a
	// replica set. When false the store behaves like a standalone server.
	Transactions bool
}

func New(opts Options) *Store {
	return &Store{transactions: opts.Transactions}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) Menu() *MenuRepository { return &MenuRepository{s} }
func (s *Store) Reviews() *ReviewRepository { return &ReviewRepository{s} }
func (s *Store) Carts() *CartRepository { return &CartRepository{s} }
func (s *Store) Payments() *PaymentRepository { return &PaymentRepository{s} }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

// SeedReviews replaces the review collection; reviews have no write path
// over HTTP.
func (s *Store) SeedReviews(reviews ...domain.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = append([]domain.Review(nil), reviews...)
}

func (s *Store) SupportsTransactions() bool {
	return s.transactions
}

// WithTransaction restores every collection to its prior state when fn
// fails. Writes from concurrent callers made while fn runs are rolled back
// too, which is acceptable for a development store.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type state struct {
	users    []domain.User
	menu     []domain.MenuItem
	reviews  []domain.Review
	carts    []domain.CartItem
	payments []domain.Payment
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return state{
		users:    append([]domain.User(nil), s.users...),
		menu:     append([]domain.MenuItem(nil), s.menu...),
		reviews:  append([]domain.Review(nil), s.reviews...),
		carts:    append([]domain.CartItem(nil), s.carts...),
		payments: append([]domain.Payment(nil), s.payments...),
	}
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users, s.menu, s.reviews, s.carts, s.payments = st.users, st.menu, st.reviews, st.carts, st.payments
}
