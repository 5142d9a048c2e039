package memory

import (
	"context"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuRepository struct {
	s *Store
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.MenuItem{}, r.s.menu...), nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, item := range r.s.menu {
		if item.ID == id {
			item := item
			return &item, nil
		}
	}

	return nil, repo.ErrNotFound
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	r.s.menu = append(r.s.menu, *item)

	return nil
}

func (r *MenuRepository) CreateMany(ctx context.Context, items []domain.MenuItem) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range items {
		if items[i].ID.IsZero() {
			items[i].ID = primitive.NewObjectID()
		}
		r.s.menu = append(r.s.menu, items[i])
	}

	return len(items), nil
}

func (r *MenuRepository) Replace(ctx context.Context, id primitive.ObjectID, update domain.MenuUpdate) (domain.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := domain.UpdateResult{Acknowledged: true}
	for i := range r.s.menu {
		item := &r.s.menu[i]
		if item.ID != id {
			continue
		}
		res.MatchedCount = 1
		if item.Name != update.Name || item.Price != update.Price || item.Category != update.Category || item.Recipe != update.Recipe {
			res.ModifiedCount = 1
		}
		item.Name = update.Name
		item.Price = update.Price
		item.Category = update.Category
		item.Recipe = update.Recipe
	}

	return res, nil
}

func (r *MenuRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.DeleteResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := domain.DeleteResult{Acknowledged: true}
	kept := r.s.menu[:0]
	for _, item := range r.s.menu {
		if item.ID == id {
			res.DeletedCount++
			continue
		}
		kept = append(kept, item)
	}
	r.s.menu = kept

	return res, nil
}

func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.menu)), nil
}
