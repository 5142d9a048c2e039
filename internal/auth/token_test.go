package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(Claims{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueRequiresEmail(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	_, err := svc.Issue(Claims{Name: "nobody"})
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestVerifyFailures(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	valid, err := svc.Issue(Claims{Email: "ana@example.com"})
	require.NoError(t, err)

	expiredSvc := NewTokenService("secret", time.Hour)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.Issue(Claims{Email: "ana@example.com"})
	require.NoError(t, err)

	otherSecret, err := NewTokenService("other", time.Hour).Issue(Claims{Email: "ana@example.com"})
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "ana@example.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"malformed", "not-a-token", ErrInvalidToken},
		{"tampered", valid + "x", ErrInvalidToken},
		{"wrong secret", otherSecret, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTTLIsConfigurable(t *testing.T) {
	svc := NewTokenService("secret", 24*time.Hour)

	token, err := svc.Issue(Claims{Email: "ana@example.com"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIdentityContext(t *testing.T) {
	assert.Nil(t, IdentityFrom(context.Background()))

	ctx := WithIdentity(context.Background(), &Claims{Email: "ana@example.com"})
	require.NotNil(t, IdentityFrom(ctx))
	assert.Equal(t, "ana@example.com", IdentityFrom(ctx).Email)
}
