package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/payment"
	"github.com/fabianroy/Bistro-Boss-Server/internal/queue"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CheckoutResult reports both halves of recording a payment. CartStatus is
// pending when the payment was stored but its cart items could not be
// removed yet.
type CheckoutResult struct {
	PaymentResult   domain.InsertResult `json:"paymentResult"`
	DeleteResult    domain.DeleteResult `json:"deleteResult"`
	CartStatus      domain.CartStatus   `json:"cartStatus"`
	ReconcileQueued bool                `json:"reconcileQueued,omitempty"`
}

func (r *CheckoutResult) Partial() bool {
	return r.CartStatus != domain.CartStatusCleared
}

type CheckoutService struct {
	paymentRepo repo.PaymentRepository
	cartRepo    repo.CartRepository
	tx          repo.Transactor
	provider    payment.Provider
	broker      queue.Broker
	currency    string
	logger      *zap.SugaredLogger
}

// NewCheckoutService wires the payment flow. broker may be nil, in which
// case pending cart clears wait for a manual reconcile.
func NewCheckoutService(
	paymentRepo repo.PaymentRepository,
	cartRepo repo.CartRepository,
	tx repo.Transactor,
	provider payment.Provider,
	broker queue.Broker,
	currency string,
	logger *zap.SugaredLogger,
) *CheckoutService {
	return &CheckoutService{
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
		tx:          tx,
		provider:    provider,
		broker:      broker,
		currency:    currency,
		logger:      logger,
	}
}

func (s *CheckoutService) CreateIntent(ctx context.Context, price float64) (string, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return "", ErrInvalidPrice
	}

	amount := payment.MinorUnits(price)
	if amount <= 0 {
		return "", ErrInvalidPrice
	}

	secret, err := s.provider.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		s.logger.Errorw("payment intent failed", "amount", amount, "currency", s.currency, "error", err)
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	s.logger.Infow("payment intent created", "amount", amount, "currency", s.currency)

	return secret, nil
}

// Record stores the payment and removes the cart items it paid for. With
// transaction support both writes commit or abort together. Otherwise the
// payment is written first as pending and a failed cart clear is handed to
// the reconciliation queue.
func (s *CheckoutService) Record(ctx context.Context, p *domain.Payment) (*CheckoutResult, error) {
	if err := validatePayment(p); err != nil {
		return nil, err
	}

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}

	p.CartIDs = uniqueIDs(p.CartIDs)

	if err := s.checkCartOwnership(ctx, p); err != nil {
		return nil, err
	}

	if s.tx != nil && s.tx.SupportsTransactions() {
		return s.recordInTransaction(ctx, p)
	}

	return s.recordThenClear(ctx, p)
}

// checkCartOwnership rejects a payment naming cart items that are not in
// the payer's cart.
func (s *CheckoutService) checkCartOwnership(ctx context.Context, p *domain.Payment) error {
	items, err := s.cartRepo.ListByEmail(ctx, p.Email)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	owned := make(map[primitive.ObjectID]struct{}, len(items))
	for _, item := range items {
		owned[item.ID] = struct{}{}
	}

	for _, id := range p.CartIDs {
		if _, ok := owned[id]; !ok {
			s.logger.Warnw("payment names unknown cart item", "email", p.Email, "cart_id", id.Hex())
			return fmt.Errorf("%w: cart item %s is not in the payer's cart", ErrInvalidPayment, id.Hex())
		}
	}

	return nil
}

func (s *CheckoutService) recordInTransaction(ctx context.Context, p *domain.Payment) (*CheckoutResult, error) {
	p.CartStatus = domain.CartStatusCleared

	var deleted domain.DeleteResult
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Create(ctx, p); err != nil {
			return err
		}

		res, err := s.cartRepo.DeleteMany(ctx, p.Email, p.CartIDs)
		if err != nil {
			return err
		}
		// an item removed since the ownership check aborts the payment
		if res.DeletedCount != int64(len(p.CartIDs)) {
			return fmt.Errorf("%w: %d of %d cart items found", ErrInvalidPayment, res.DeletedCount, len(p.CartIDs))
		}
		deleted = res

		return nil
	})
	if err != nil {
		s.logger.Errorw("checkout transaction failed", "payment_id", p.ID.Hex(), "email", p.Email, "error", err)
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Infow("payment recorded", "payment_id", p.ID.Hex(), "email", p.Email, "cart_items", deleted.DeletedCount)

	return &CheckoutResult{
		PaymentResult: domain.Inserted(p.ID),
		DeleteResult:  deleted,
		CartStatus:    domain.CartStatusCleared,
	}, nil
}

func (s *CheckoutService) recordThenClear(ctx context.Context, p *domain.Payment) (*CheckoutResult, error) {
	p.CartStatus = domain.CartStatusPending

	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	result := &CheckoutResult{
		PaymentResult: domain.Inserted(p.ID),
		CartStatus:    domain.CartStatusPending,
	}

	deleted, err := s.cartRepo.DeleteMany(ctx, p.Email, p.CartIDs)
	if err != nil {
		s.logger.Errorw("cart clear failed after payment", "payment_id", p.ID.Hex(), "email", p.Email, "error", err)
		result.ReconcileQueued = s.enqueueReconcile(ctx, p)
		return result, nil
	}

	result.DeleteResult = deleted
	result.CartStatus = domain.CartStatusCleared

	if err := s.paymentRepo.SetCartStatus(ctx, p.ID, domain.CartStatusCleared); err != nil {
		// items are gone; the queued reconcile only rewrites the flag
		s.logger.Warnw("failed to mark payment cart cleared", "payment_id", p.ID.Hex(), "error", err)
		result.ReconcileQueued = s.enqueueReconcile(ctx, p)
	}

	s.logger.Infow("payment recorded", "payment_id", p.ID.Hex(), "email", p.Email, "cart_items", deleted.DeletedCount)

	return result, nil
}

func (s *CheckoutService) enqueueReconcile(ctx context.Context, p *domain.Payment) bool {
	if s.broker == nil {
		return false
	}

	msg, err := json.Marshal(domain.CartClearMessage{PaymentID: p.ID.Hex(), Email: p.Email})
	if err != nil {
		s.logger.Errorw("failed to marshal cart clear message", "payment_id", p.ID.Hex(), "error", err)
		return false
	}

	if err := s.broker.Publish(ctx, queue.QueueCartClear, msg); err != nil {
		s.logger.Errorw("failed to queue cart clear", "payment_id", p.ID.Hex(), "error", err)
		return false
	}

	s.logger.Infow("cart clear queued", "payment_id", p.ID.Hex())

	return true
}

// Reconcile removes the cart items of a pending payment and marks it
// cleared. Calling it again for a cleared payment changes nothing.
func (s *CheckoutService) Reconcile(ctx context.Context, paymentID primitive.ObjectID) (domain.DeleteResult, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("failed to load payment: %w", err)
	}

	if p.CartStatus == domain.CartStatusCleared {
		return domain.DeleteResult{Acknowledged: true}, nil
	}

	deleted, err := s.cartRepo.DeleteMany(ctx, p.Email, p.CartIDs)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := s.paymentRepo.SetCartStatus(ctx, p.ID, domain.CartStatusCleared); err != nil {
		return deleted, fmt.Errorf("failed to mark payment cart cleared: %w", err)
	}

	s.logger.Infow("payment cart reconciled", "payment_id", p.ID.Hex(), "cart_items", deleted.DeletedCount)

	return deleted, nil
}

func validatePayment(p *domain.Payment) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: payment is required", ErrInvalidPayment)
	case p.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidPayment)
	case math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0:
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidPayment)
	case len(p.CartIDs) == 0:
		return fmt.Errorf("%w: cartIds must not be empty", ErrInvalidPayment)
	}

	for _, id := range p.CartIDs {
		if id.IsZero() {
			return fmt.Errorf("%w: %v", ErrInvalidPayment, repo.ErrInvalidID)
		}
	}

	return nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
