// Package payment talks to the card payment provider.
package payment

import (
	"context"
	"math"
)

// Provider stages a payment on the provider side and returns the client
// secret the browser uses to confirm the card payment.
type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// MinorUnits converts a decimal price into cents, truncating any fraction
// of a cent toward zero.
func MinorUnits(price float64) int64 {
	return int64(math.Trunc(price * 100))
}
