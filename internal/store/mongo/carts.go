package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{
		collection: db.Collection(CollectionCarts),
	}
}

func (r *CartRepository) ListByEmail(ctx context.Context, email string) ([]domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []domain.CartItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return items, nil
}

func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, item)
	return wrapError("create cart item", err)
}

func (r *CartRepository) Delete(ctx context.Context, id primitive.ObjectID) (domain.DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("failed to delete cart item: %w", err)
	}

	return domain.DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}

func (r *CartRepository) DeleteMany(ctx context.Context, email string, ids []primitive.ObjectID) (domain.DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":   bson.M{"$in": ids},
		"email": email,
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("failed to delete cart items: %w", err)
	}

	return domain.DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}
