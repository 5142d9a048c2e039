package memory

import (
	"context"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
)

type ReviewRepository struct {
	s *Store
}

func (r *ReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.Review{}, r.s.reviews...), nil
}

func (r *ReviewRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.reviews)), nil
}
