// Package gateway abstracts the external payment provider behind a single
// interface so backends are swappable and tests can substitute a fake.
package gateway

import "context"

// Order is a gateway-side reservation for an expected payment
type Order struct {
	ID       string
	Amount   int64 // minor units
	Currency string
}

// PaymentGateway creates orders with the external payment provider.
// Implementations must bound the call with a timeout and surface failures
// as errs.GatewayError rather than hang.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency string, notes map[string]interface{}) (*Order, error)
}
