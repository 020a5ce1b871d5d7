package services

import (
	"errors"
	"fmt"

	"ms-eventhub/internal/logger"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var (
	ErrStripeAPIError         = errors.New("stripe API error")
	ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")
)

// StripeService wraps the Stripe client for intent creation. Amounts arrive
// in major units and are converted to the smallest currency unit on the wire.
type StripeService struct {
	client *client.API
	log    *logger.Logger
}

func NewStripeService(secretKey string, log *logger.Logger) (*StripeService, error) {
	if secretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY is not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(secretKey, nil)
	log.Info("STRIPE", "Stripe client initialized")
	return &StripeService{client: sc, log: log}, nil
}

// CreateIntent opens a PaymentIntent for the order. The order id rides in the
// intent metadata so the webhook can route the outcome back.
func (s *StripeService) CreateIntent(orderID string, amount float64, currency string) (*stripe.PaymentIntent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: invalid amount %.2f", ErrStripeAPIError, amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(currency),
		Metadata: map[string]string{"order_id": orderID},
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Failed to create payment intent for order %s: %v", orderID, err))
		return nil, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	s.log.Info("STRIPE", fmt.Sprintf("Payment intent %s created for order %s", pi.ID, orderID))
	return pi, nil
}
