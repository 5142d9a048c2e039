package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reconciler clears the cart of a payment left pending by a failed checkout.
type Reconciler interface {
	Reconcile(ctx context.Context, paymentID primitive.ObjectID) (domain.DeleteResult, error)
}

type CartClearWorker struct {
	reconciler Reconciler
	broker     queue.Broker
	logger     *zap.SugaredLogger
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewCartClearWorker(
	reconciler Reconciler,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *CartClearWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &CartClearWorker{
		reconciler: reconciler,
		broker:     broker,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (w *CartClearWorker) Start() error {
	w.logger.Info("starting cart clear worker")

	return w.broker.Subscribe(w.ctx, queue.QueueCartClear, w.handleMessage)
}

func (w *CartClearWorker) Stop() {
	w.logger.Info("stopping cart clear worker")
	w.cancel()
}

func (w *CartClearWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.CartClearMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	w.logger.Infow("processing cart clear message", "payment_id", msg.PaymentID)

	paymentID, err := primitive.ObjectIDFromHex(msg.PaymentID)
	if err != nil {
		w.logger.Errorw("invalid payment ID", "payment_id", msg.PaymentID, "error", err)
		return fmt.Errorf("invalid payment ID: %w", err)
	}

	deleted, err := w.reconciler.Reconcile(ctx, paymentID)
	if err != nil {
		w.logger.Errorw("failed to reconcile payment cart", "payment_id", msg.PaymentID, "error", err)
		return err
	}

	w.logger.Infow("payment cart cleared", "payment_id", msg.PaymentID, "deleted", deleted.DeletedCount)

	return nil
}
