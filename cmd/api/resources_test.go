package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/ratelimiter"
	"github.com/fabianroy/Bistro-Boss-Server/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMenuLifecycle(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodPost, "/menu", adminEmail, CreateMenuItemRequest{
		Name:     "Tomato soup",
		Recipe:   "Tomatoes, basil",
		Image:    "https://img.test/soup.png",
		Category: "soup",
		Price:    6.5,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	inserted := decode[domain.InsertResult](t, rr)
	require.NotNil(t, inserted.InsertedID)
	id := inserted.InsertedID.Hex()

	rr = s.do(t, http.MethodGet, "/menu/"+id, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Tomato soup", decode[domain.MenuItem](t, rr).Name)

	rr = s.do(t, http.MethodGet, "/menu", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.MenuItem](t, rr), 1)

	rr = s.do(t, http.MethodDelete, "/menu/"+id, adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decode[domain.DeleteResult](t, rr).DeletedCount)

	rr = s.do(t, http.MethodGet, "/menu/"+id, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", string(trimNewline(rr.Body.Bytes())))
}

func TestCreateMenuItemValidation(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	tests := map[string]CreateMenuItemRequest{
		"missing name":   {Price: 5},
		"zero price":     {Name: "Soup"},
		"negative price": {Name: "Soup", Price: -1},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/menu", adminEmail, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestMenuUpdateIsFullOverwrite(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			s := newTestServer(t, ratelimiter.Config{})
			ctx := context.Background()

			item := &domain.MenuItem{
				Name:     "Caesar",
				Recipe:   "Romaine, parmesan",
				Image:    "https://img.test/caesar.png",
				Category: "salad",
				Price:    8,
			}
			require.NoError(t, s.store.Menu().Create(ctx, item))

			rr := s.do(t, method, "/menu/"+item.ID.Hex(), adminEmail, map[string]any{"name": "Greek"})
			require.Equal(t, http.StatusOK, rr.Code)
			res := decode[domain.UpdateResult](t, rr)
			assert.EqualValues(t, 1, res.MatchedCount)

			got, err := s.store.Menu().GetByID(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, "Greek", got.Name)
			assert.Zero(t, got.Price)
			assert.Empty(t, got.Category)
			assert.Empty(t, got.Recipe)
			assert.Equal(t, "https://img.test/caesar.png", got.Image)
		})
	}
}

func TestMenuImportWithoutCredentials(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodPost, "/menu/import", adminEmail, ImportMenuRequest{SpreadsheetID: "sheet"})
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, kindImportUnavailable, decode[map[string]string](t, rr)["kind"])
}

func TestListReviews(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodGet, "/reviews", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]domain.Review](t, rr))

	s.store.SeedReviews(domain.Review{Name: "Ann", Details: "Lovely soup", Rating: 5})

	rr = s.do(t, http.MethodGet, "/reviews", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	reviews := decode[[]domain.Review](t, rr)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Lovely soup", reviews[0].Details)
}

func addToCart(t *testing.T, s *testServer, email string, price float64) string {
	t.Helper()

	rr := s.do(t, http.MethodPost, "/carts", "", AddCartItemRequest{
		MenuID: primitive.NewObjectID().Hex(),
		Email:  email,
		Name:   "dish",
		Price:  price,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	inserted := decode[domain.InsertResult](t, rr)
	require.NotNil(t, inserted.InsertedID)
	return inserted.InsertedID.Hex()
}

func TestCartsAreScopedByEmail(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	addToCart(t, s, userEmail, 10)
	addToCart(t, s, userEmail, 12)
	addToCart(t, s, otherEmail, 99)

	rr := s.do(t, http.MethodGet, "/carts?email="+userEmail, userEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	items := decode[[]domain.CartItem](t, rr)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, userEmail, item.Email)
	}

	rr = s.do(t, http.MethodGet, "/carts?email="+otherEmail, otherEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.CartItem](t, rr), 1)
}

func TestAddCartItemValidation(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodPost, "/carts", "", AddCartItemRequest{Email: userEmail})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/carts", "", AddCartItemRequest{MenuID: "m1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteCartItem(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	id := addToCart(t, s, userEmail, 10)

	rr := s.do(t, http.MethodDelete, "/carts/"+id, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decode[domain.DeleteResult](t, rr).DeletedCount)

	rr = s.do(t, http.MethodDelete, "/carts/"+id, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, decode[domain.DeleteResult](t, rr).DeletedCount)
}

func TestCreatePaymentIntent(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodPost, "/create-payment-intent", "", CreatePaymentIntentRequest{Price: 12.5})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pi_test_secret", decode[CreatePaymentIntentResponse](t, rr).ClientSecret)
	assert.EqualValues(t, 1250, s.provider.amount)

	for _, price := range []float64{0, -3} {
		rr = s.do(t, http.MethodPost, "/create-payment-intent", "", CreatePaymentIntentRequest{Price: price})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, kindValidation, decode[map[string]string](t, rr)["kind"])
	}

	s.provider.err = errProviderDown
	rr = s.do(t, http.MethodPost, "/create-payment-intent", "", CreatePaymentIntentRequest{Price: 10})
	require.Equal(t, http.StatusBadGateway, rr.Code)
	body := decode[map[string]string](t, rr)
	assert.Equal(t, kindUpstream, body["kind"])
	assert.NotContains(t, body["error"], errProviderDown.Error())
}

func TestPaymentClearsPaidCartItems(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	a := addToCart(t, s, userEmail, 10)
	b := addToCart(t, s, userEmail, 20)
	keep := addToCart(t, s, userEmail, 5)

	rr := s.do(t, http.MethodPost, "/payments", "", RecordPaymentRequest{
		Email:         userEmail,
		Amount:        30,
		TransactionID: "pi_123",
		CartIDs:       []string{a, b},
		Status:        "pending",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	result := decode[service.CheckoutResult](t, rr)
	assert.Equal(t, domain.CartStatusCleared, result.CartStatus)
	assert.EqualValues(t, 2, result.DeleteResult.DeletedCount)
	require.NotNil(t, result.PaymentResult.InsertedID)

	rr = s.do(t, http.MethodGet, "/carts?email="+userEmail, userEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	items := decode[[]domain.CartItem](t, rr)
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0].ID.Hex())

	rr = s.do(t, http.MethodGet, "/payments/"+userEmail, userEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	payments := decode[[]domain.Payment](t, rr)
	require.Len(t, payments, 1)
	assert.Equal(t, 30.0, payments[0].Amount)
	assert.Equal(t, domain.CartStatusCleared, payments[0].CartStatus)

	// a cleared payment reconciles to a no-op
	rr = s.do(t, http.MethodPost, "/payments/"+result.PaymentResult.InsertedID.Hex()+"/reconcile", adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, decode[domain.DeleteResult](t, rr).DeletedCount)
}

func TestRecordPaymentValidation(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})
	id := primitive.NewObjectID().Hex()

	tests := map[string]RecordPaymentRequest{
		"missing email":   {Amount: 10, CartIDs: []string{id}},
		"zero amount":     {Email: userEmail, CartIDs: []string{id}},
		"no cart ids":     {Email: userEmail, Amount: 10},
		"malformed cart":  {Email: userEmail, Amount: 10, CartIDs: []string{"nope"}},
		"empty cart list": {Email: userEmail, Amount: 10, CartIDs: []string{}},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/payments", "", req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	n, err := s.store.Payments().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPaymentRejectsCartItemsPayerDoesNotOwn(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	theirs := addToCart(t, s, adminEmail, 10)

	for name, ids := range map[string][]string{
		"unknown item":     {primitive.NewObjectID().Hex()},
		"other users item": {theirs},
	} {
		t.Run(name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/payments", "", RecordPaymentRequest{Email: userEmail, Amount: 10, CartIDs: ids})
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Equal(t, kindValidation, decode[map[string]string](t, rr)["kind"])
		})
	}

	rr := s.do(t, http.MethodGet, "/admin-stats", adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[domain.AdminStats](t, rr)
	assert.Zero(t, stats.Orders)
	assert.Zero(t, stats.Revenue)

	rr = s.do(t, http.MethodGet, "/carts?email="+adminEmail, adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.CartItem](t, rr), 1)
}

func TestReconcileUnknownPayment(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodPost, "/payments/"+primitive.NewObjectID().Hex()+"/reconcile", adminEmail, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, kindNotFound, decode[map[string]string](t, rr)["kind"])
}

func TestAdminStatsRevenue(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodGet, "/admin-stats", adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	empty := decode[domain.AdminStats](t, rr)
	assert.Zero(t, empty.Revenue)
	assert.Zero(t, empty.Orders)
	assert.EqualValues(t, 2, empty.Users)

	for _, amount := range []float64{10, 20, 30} {
		id := addToCart(t, s, userEmail, amount)
		rr := s.do(t, http.MethodPost, "/payments", "", RecordPaymentRequest{
			Email:   userEmail,
			Amount:  amount,
			CartIDs: []string{id},
		})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr = s.do(t, http.MethodGet, "/admin-stats", adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[domain.AdminStats](t, rr)
	assert.Equal(t, 60.0, stats.Revenue)
	assert.EqualValues(t, 3, stats.Orders)
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}
