package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/queue"
	"github.com/fabianroy/Bistro-Boss-Server/internal/store/memory"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errStorage = errors.New("storage unavailable")

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type fakeProvider struct {
	secret   string
	err      error
	amount   int64
	currency string
}

func (p *fakeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	p.amount = amount
	p.currency = currency
	return p.secret, p.err
}

type published struct {
	queue   string
	message []byte
}

type fakeBroker struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (b *fakeBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, published{queue: queueName, message: message})
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	return nil
}

func (b *fakeBroker) Close() error { return nil }

// flakyCarts fails DeleteMany while failing is set. beforeDelete runs ahead
// of each DeleteMany to simulate a concurrent writer.
type flakyCarts struct {
	*memory.CartRepository
	failing      bool
	beforeDelete func()
}

func (c *flakyCarts) DeleteMany(ctx context.Context, email string, ids []primitive.ObjectID) (domain.DeleteResult, error) {
	if c.beforeDelete != nil {
		c.beforeDelete()
	}
	if c.failing {
		return domain.DeleteResult{}, errStorage
	}
	return c.CartRepository.DeleteMany(ctx, email, ids)
}

// flakyPayments fails SetCartStatus while failing is set.
type flakyPayments struct {
	*memory.PaymentRepository
	failing bool
}

func (p *flakyPayments) SetCartStatus(ctx context.Context, id primitive.ObjectID, status domain.CartStatus) error {
	if p.failing {
		return errStorage
	}
	return p.PaymentRepository.SetCartStatus(ctx, id, status)
}

type fakeSource struct {
	items []domain.MenuItem
	err   error
	calls int
}

func (s *fakeSource) ParseMenu(ctx context.Context, spreadsheetID string) ([]domain.MenuItem, error) {
	s.calls++
	return s.items, s.err
}

func seedCart(s *memory.Store, email string, prices ...float64) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(prices))
	for _, price := range prices {
		item := &domain.CartItem{Email: email, MenuID: primitive.NewObjectID().Hex(), Name: "item", Price: price}
		_ = s.Carts().Create(context.Background(), item)
		ids = append(ids, item.ID)
	}
	return ids
}
