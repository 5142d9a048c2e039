package repo

import (
	"context"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Payment, error)
	SetCartStatus(ctx context.Context, id primitive.ObjectID, status domain.CartStatus) error
	Count(ctx context.Context) (int64, error)
	// Revenue sums the amount of every payment, zero when there are none.
	Revenue(ctx context.Context) (float64, error)
}
