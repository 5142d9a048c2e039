package memory

import (
	"context"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repo.ErrDuplicate
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.s.users = append(r.s.users, *user)

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}

	return nil, repo.ErrNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.User{}, r.s.users...), nil
}

func (r *UserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) (domain.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := domain.UpdateResult{Acknowledged: true}
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			res.MatchedCount = 1
			if r.s.users[i].Role != role {
				r.s.users[i].Role = role
				res.ModifiedCount = 1
			}
		}
	}

	return res, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.DeleteResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := domain.DeleteResult{Acknowledged: true}
	kept := r.s.users[:0]
	for _, u := range r.s.users {
		if u.ID == id {
			res.DeletedCount++
			continue
		}
		kept = append(kept, u)
	}
	r.s.users = kept

	return res, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.users)), nil
}
