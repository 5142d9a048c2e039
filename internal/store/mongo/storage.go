package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionUsers    = "Users"
	CollectionMenu     = "Menu"
	CollectionReviews  = "Reviews"
	CollectionCarts    = "Carts"
	CollectionPayments = "Payments"
)

type Storage struct {
	client       *mongo.Client
	database     *mongo.Database
	config       Config
	transactions bool
}

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func New(cfg Config) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Storage{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}
	s.transactions = s.detectTransactions(ctx)

	return s, nil
}

// detectTransactions reports whether the deployment is a replica set or a
// sharded cluster; standalone servers reject multi-document transactions.
func (s *Storage) detectTransactions(ctx context.Context) bool {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	err := s.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		return false
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid"
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Database() *mongo.Database {
	return s.database
}

func (s *Storage) SupportsTransactions() bool {
	return s.transactions
}

func (s *Storage) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	return nil
}

func (s *Storage) CreateIndexes(ctx context.Context) error {
	usersIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.database.Collection(CollectionUsers).Indexes().CreateMany(ctx, usersIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", CollectionUsers, err)
	}

	menuIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}
	if _, err := s.database.Collection(CollectionMenu).Indexes().CreateMany(ctx, menuIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", CollectionMenu, err)
	}

	cartsIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}
	if _, err := s.database.Collection(CollectionCarts).Indexes().CreateMany(ctx, cartsIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", CollectionCarts, err)
	}

	paymentsIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "cartStatus", Value: 1}}},
	}
	if _, err := s.database.Collection(CollectionPayments).Indexes().CreateMany(ctx, paymentsIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", CollectionPayments, err)
	}

	return nil
}

// wrapError maps driver errors onto the repository sentinels.
func wrapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repo.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repo.ErrDuplicate
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
