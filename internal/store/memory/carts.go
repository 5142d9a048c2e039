package memory

import (
	"context"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartRepository struct {
	s *Store
}

func (r *CartRepository) ListByEmail(ctx context.Context, email string) ([]domain.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []domain.CartItem{}
	for _, item := range r.s.carts {
		if item.Email == email {
			items = append(items, item)
		}
	}

	return items, nil
}

func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.s.carts = append(r.s.carts, *item)

	return nil
}

func (r *CartRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.DeleteResult, error) {
	return r.deleteWhere(func(item domain.CartItem) bool { return item.ID == id }), nil
}

func (r *CartRepository) DeleteMany(ctx context.Context, email string, ids []primitive.ObjectID) (domain.DeleteResult, error) {
	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	return r.deleteWhere(func(item domain.CartItem) bool {
		_, ok := wanted[item.ID]
		return ok && item.Email == email
	}), nil
}

func (r *CartRepository) deleteWhere(match func(domain.CartItem) bool) domain.DeleteResult {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := domain.DeleteResult{Acknowledged: true}
	kept := r.s.carts[:0]
	for _, item := range r.s.carts {
		if match(item) {
			res.DeletedCount++
			continue
		}
		kept = append(kept, item)
	}
	r.s.carts = kept

	return res
}
