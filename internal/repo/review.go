package repo

import (
	"context"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
)

type ReviewRepository interface {
	List(ctx context.Context) ([]domain.Review, error)
	Count(ctx context.Context) (int64, error)
}
