package repo

import (
	"context"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartRepository interface {
	ListByEmail(ctx context.Context, email string) ([]domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	Delete(ctx context.Context, id primitive.ObjectID) (domain.DeleteResult, error)
	// DeleteMany removes the listed items owned by email. Items that are
	// already gone are not an error, so the call is safe to repeat.
	DeleteMany(ctx context.Context, email string, ids []primitive.ObjectID) (domain.DeleteResult, error)
}
