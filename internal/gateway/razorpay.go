package gateway

import (
	"context"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"invoicely-backend/internal/errs"
)

const defaultTimeout = 15 * time.Second

// RazorpayGateway is the Razorpay backend of the PaymentGateway interface
type RazorpayGateway struct {
	client  *razorpay.Client
	timeout time.Duration
}

// NewRazorpayGateway builds a gateway client from API credentials
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:  razorpay.NewClient(keyID, keySecret),
		timeout: defaultTimeout,
	}
}

// CreateOrder creates a Razorpay order for the given amount in minor units.
// The SDK call has no context support, so it runs under a deadline and the
// call is abandoned if the provider does not answer in time.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency string, notes map[string]interface{}) (*Order, error) {
	orderData := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"notes":    notes,
	}

	type response struct {
		order map[string]interface{}
		err   error
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	ch := make(chan response, 1)
	go func() {
		order, err := g.client.Order.Create(orderData, nil)
		ch <- response{order: order, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errs.Gateway("payment gateway timed out", ctx.Err())
	case resp := <-ch:
		if resp.err != nil {
			return nil, errs.Gateway("failed to create payment order", resp.err)
		}

		orderID, _ := resp.order["id"].(string)
		if orderID == "" {
			return nil, errs.Gateway("payment gateway returned no order id", nil)
		}

		return &Order{
			ID:       orderID,
			Amount:   amountMinor,
			Currency: currency,
		}, nil
	}
}
