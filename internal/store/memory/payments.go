package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentRepository struct {
	s *Store
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	for _, p := range r.s.payments {
		if p.ID == payment.ID {
			return repo.ErrDuplicate
		}
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now()
	}

	stored := *payment
	stored.CartIDs = append([]primitive.ObjectID(nil), payment.CartIDs...)
	r.s.payments = append(r.s.payments, stored)

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.payments {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}

	return nil, repo.ErrNotFound
}

func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	payments := []domain.Payment{}
	for _, p := range r.s.payments {
		if p.Email == email {
			payments = append(payments, p)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Date.After(payments[j].Date)
	})

	return payments, nil
}

func (r *PaymentRepository) SetCartStatus(ctx context.Context, id primitive.ObjectID, status domain.CartStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.payments {
		if r.s.payments[i].ID == id {
			r.s.payments[i].CartStatus = status
			return nil
		}
	}

	return fmt.Errorf("payment %s: %w", id.Hex(), repo.ErrNotFound)
}

func (r *PaymentRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.payments)), nil
}

func (r *PaymentRepository) Revenue(ctx context.Context) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total float64
	for _, p := range r.s.payments {
		total += p.Amount
	}

	return total, nil
}
