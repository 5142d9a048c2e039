package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/fabianroy/Bistro-Boss-Server/internal/auth"
	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/ratelimiter"
	"github.com/fabianroy/Bistro-Boss-Server/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminEmail = "boss@bistro.test"
	userEmail  = "ann@bistro.test"
	otherEmail = "bob@bistro.test"
)

type fakeProvider struct {
	amount int64
	err    error
}

func (p *fakeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	p.amount = amount
	if p.err != nil {
		return "", p.err
	}
	return "pi_test_secret", nil
}

type testServer struct {
	app      *application
	store    *memory.Store
	provider *fakeProvider
	mux      http.Handler
}

func newTestServer(t *testing.T, rl ratelimiter.Config) *testServer {
	t.Helper()

	cfg := config{
		addr:        ":0",
		env:         "test",
		storeDriver: "memory",
		corsOrigins: []string{"http://localhost:5173"},
		rateLimiter: rl,
		auth:        authConfig{secret: "test-secret", ttl: time.Hour},
		payment:     paymentConfig{currency: "usd"},
	}

	store := memory.New(memory.Options{})
	repos := repositories{
		users:    store.Users(),
		menu:     store.Menu(),
		reviews:  store.Reviews(),
		carts:    store.Carts(),
		payments: store.Payments(),
	}
	provider := &fakeProvider{}

	app := newApplication(cfg, zap.NewNop().Sugar(), store, repos, nil, provider, nil)

	ctx := context.Background()
	admin := &domain.User{Name: "Boss", Email: adminEmail}
	require.NoError(t, store.Users().Create(ctx, admin))
	_, err := store.Users().SetRole(ctx, admin.ID, domain.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &domain.User{Name: "Ann", Email: userEmail, Role: domain.RoleRegular}))

	return &testServer{app: app, store: store, provider: provider, mux: app.mount()}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()

	token, err := s.app.tokens.Issue(auth.Claims{Email: email})
	require.NoError(t, err)
	return token
}

// do sends a request as email; an empty email sends no Authorization header.
func (s *testServer) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, email))
	}

	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bistro Boss Server is running", rr.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[HealthResponse](t, rr)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Services["database"])
	assert.Equal(t, "disabled", resp.Services["queue"])
}

func TestGatedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/admin/" + userEmail},
		{http.MethodPatch, "/users/admin/000000000000000000000001"},
		{http.MethodDelete, "/users/000000000000000000000001"},
		{http.MethodPost, "/menu"},
		{http.MethodPut, "/menu/000000000000000000000001"},
		{http.MethodDelete, "/menu/000000000000000000000001"},
		{http.MethodGet, "/carts?email=" + userEmail},
		{http.MethodGet, "/payments/" + userEmail},
		{http.MethodGet, "/admin-stats"},
	}

	for _, tt := range routes {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := s.do(t, tt.method, tt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Unauthorized Request", rr.Body.String())
		})
	}
}

func TestInvalidTokens(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	expired := auth.NewTokenService("test-secret", -time.Minute)
	expiredToken, err := expired.Issue(auth.Claims{Email: userEmail})
	require.NoError(t, err)

	foreign := auth.NewTokenService("another-secret", time.Hour)
	foreignToken, err := foreign.Issue(auth.Claims{Email: userEmail})
	require.NoError(t, err)

	headers := map[string]string{
		"garbage":      "Bearer not-a-token",
		"wrong scheme": "Basic " + s.token(t, userEmail),
		"no token":     "Bearer ",
		"expired":      "Bearer " + expiredToken,
		"wrong secret": "Bearer " + foreignToken,
	}

	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/carts?email="+userEmail, nil)
			req.Header.Set("Authorization", header)
			rr := httptest.NewRecorder()
			s.mux.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestAdminRoutesForbidRegularUsers(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	routes := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/users", nil},
		{http.MethodPatch, "/users/admin/000000000000000000000001", nil},
		{http.MethodDelete, "/users/000000000000000000000001", nil},
		{http.MethodPost, "/menu", CreateMenuItemRequest{Name: "Soup", Price: 5}},
		{http.MethodPut, "/menu/000000000000000000000001", ReplaceMenuItemRequest{Name: "Soup"}},
		{http.MethodDelete, "/menu/000000000000000000000001", nil},
		{http.MethodPost, "/menu/import", ImportMenuRequest{SpreadsheetID: "sheet"}},
		{http.MethodPost, "/payments/000000000000000000000001/reconcile", nil},
		{http.MethodGet, "/admin-stats", nil},
	}

	for _, email := range []string{userEmail, "stranger@bistro.test"} {
		for _, tt := range routes {
			t.Run(email+" "+tt.method+" "+tt.path, func(t *testing.T) {
				rr := s.do(t, tt.method, tt.path, email, tt.body)
				assert.Equal(t, http.StatusForbidden, rr.Code)
				assert.Equal(t, "Forbidden Request", rr.Body.String())
			})
		}
	}
}

func TestEmailMustMatchToken(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	paths := []string{
		"/carts?email=" + otherEmail,
		"/carts",
		"/payments/" + otherEmail,
		"/users/admin/" + otherEmail,
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rr := s.do(t, http.MethodGet, path, userEmail, nil)
			assert.Equal(t, http.StatusForbidden, rr.Code)
		})
	}

	// admins get no exemption on self-scoped routes
	rr := s.do(t, http.MethodGet, "/carts?email="+userEmail, adminEmail, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCheckAdmin(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodGet, "/users/admin/"+adminEmail, adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[AdminStatusResponse](t, rr).Admin)

	rr = s.do(t, http.MethodGet, "/users/admin/"+userEmail, userEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[AdminStatusResponse](t, rr).Admin)
}

func TestUpsertUserIsIdempotent(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})
	req := UpsertUserRequest{Name: "Cara", Email: "cara@bistro.test", Photo: "https://img.test/cara.png"}

	first := s.do(t, http.MethodPost, "/users", "", req)
	require.Equal(t, http.StatusOK, first.Code)
	created := decode[UpsertUserResponse](t, first)
	assert.True(t, created.Acknowledged)
	require.NotNil(t, created.InsertedID)

	second := s.do(t, http.MethodPost, "/users", "", req)
	require.Equal(t, http.StatusOK, second.Code)
	again := decode[UpsertUserResponse](t, second)
	assert.Equal(t, "User already exists", again.Message)
	assert.Nil(t, again.InsertedID)

	users, err := s.store.Users().List(context.Background())
	require.NoError(t, err)

	matches := 0
	for _, u := range users {
		if u.Email == req.Email {
			matches++
			assert.Equal(t, domain.RoleRegular, u.Role)
		}
	}
	assert.Equal(t, 1, matches)
}

func TestUpsertUserRequiresEmail(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	rr := s.do(t, http.MethodPost, "/users", "", UpsertUserRequest{Name: "No Mail"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPromoteAndDeleteUser(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})
	ctx := context.Background()

	ann, err := s.store.Users().GetByEmail(ctx, userEmail)
	require.NoError(t, err)

	rr := s.do(t, http.MethodPatch, "/users/admin/"+ann.ID.Hex(), adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decode[domain.UpdateResult](t, rr).ModifiedCount)

	rr = s.do(t, http.MethodGet, "/admin-stats", userEmail, nil)
	assert.Equal(t, http.StatusOK, rr.Code, "promoted user passes the admin gate")

	rr = s.do(t, http.MethodDelete, "/users/"+ann.ID.Hex(), adminEmail, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, decode[domain.DeleteResult](t, rr).DeletedCount)

	rr = s.do(t, http.MethodGet, "/admin-stats", userEmail, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code, "deleted user no longer passes the admin gate")
}

func TestInvalidIdentifiers(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	routes := []struct {
		method string
		path   string
		email  string
		body   any
	}{
		{http.MethodGet, "/menu/not-an-id", "", nil},
		{http.MethodPut, "/menu/not-an-id", adminEmail, ReplaceMenuItemRequest{Name: "x"}},
		{http.MethodDelete, "/menu/not-an-id", adminEmail, nil},
		{http.MethodDelete, "/carts/not-an-id", "", nil},
		{http.MethodPatch, "/users/admin/not-an-id", adminEmail, nil},
		{http.MethodDelete, "/users/not-an-id", adminEmail, nil},
		{http.MethodPost, "/payments/not-an-id/reconcile", adminEmail, nil},
	}

	for _, tt := range routes {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := s.do(t, tt.method, tt.path, tt.email, tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			body := decode[map[string]string](t, rr)
			assert.Equal(t, kindValidation, body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true})

	for i := 0; i < 2; i++ {
		rr := s.do(t, http.MethodGet, "/menu", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := s.do(t, http.MethodGet, "/menu", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, kindRateLimited, decode[map[string]string](t, rr)["kind"])
}

func TestRateLimitIgnoresForwardingHeaders(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true})

	send := func(i int) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/menu", nil)
		req.RemoteAddr = "198.51.100.7:" + strconv.Itoa(40000+i)
		req.Header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i))
		req.Header.Set("X-Real-IP", "203.0.113."+strconv.Itoa(i))

		rr := httptest.NewRecorder()
		s.mux.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, send(i).Code)
	}

	rr := send(2)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	retry, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Positive(t, retry)
	assert.LessOrEqual(t, retry, 60)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	s.do(t, http.MethodGet, "/reviews", "", nil)

	rr := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `bistro_http_requests_total{method="GET",route="/reviews",status="200"} 1`)
}

var errProviderDown = errors.New("provider down")

type failingUsers struct {
	*memory.UserRepository
}

func (failingUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errors.New("connection reset")
}

func TestAdminGateFailsClosed(t *testing.T) {
	s := newTestServer(t, ratelimiter.Config{})

	repos := repositories{
		users:    failingUsers{s.store.Users()},
		menu:     s.store.Menu(),
		reviews:  s.store.Reviews(),
		carts:    s.store.Carts(),
		payments: s.store.Payments(),
	}
	app := newApplication(s.app.config, zap.NewNop().Sugar(), s.store, repos, nil, s.provider, nil)
	s.app, s.mux = app, app.mount()

	rr := s.do(t, http.MethodGet, "/admin-stats", adminEmail, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, kindUpstream, decode[map[string]string](t, rr)["kind"])
}
