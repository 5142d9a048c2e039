package repo

import (
	"context"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuRepository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	CreateMany(ctx context.Context, items []domain.MenuItem) (int, error)
	Replace(ctx context.Context, id primitive.ObjectID, update domain.MenuUpdate) (domain.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (domain.DeleteResult, error)
	Count(ctx context.Context) (int64, error)
}
