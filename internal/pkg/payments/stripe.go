package payments

import (
	"errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/charge"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/tacweb/tacweb/internal/pkg/env"
)

// Setup configures the Stripe SDK with the secret key from the environment.
// Call once at startup, before any processor call.
func Setup() {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
}

// WebhookSecret returns the endpoint signing secret used to verify incoming
// webhook deliveries.
func WebhookSecret() string {
	return env.GetEnv("STRIPE_WH_SECRET", "")
}

// PublicKey returns the publishable key the checkout page hands to Stripe.js.
func PublicKey() string {
	return env.GetEnv("STRIPE_PUBLIC_KEY", "")
}

// Currency returns the store currency for new payment intents.
func Currency() string {
	return env.GetEnv("STRIPE_CURRENCY", "gbp")
}

// ChargeClient retrieves charges through the Stripe SDK.
type ChargeClient struct{}

func NewChargeClient() ChargeClient {
	return ChargeClient{}
}

func (ChargeClient) Get(id string, params *stripe.ChargeParams) (*stripe.Charge, error) {
	return charge.Get(id, params)
}

// CreateIntent opens a payment intent for the given amount in minor currency
// units and attaches the checkout metadata the webhook handler reconciles
// against later.
func CreateIntent(amount int64, metadata map[string]string) (*stripe.PaymentIntent, error) {
	if amount <= 0 {
		return nil, errors.New("payment intent amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(Currency()),
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}
	return paymentintent.New(params)
}

// UpdateIntentMetadata merges metadata onto an existing payment intent.
func UpdateIntentMetadata(id string, metadata map[string]string) error {
	if id == "" {
		return errors.New("payment intent id is required")
	}

	params := &stripe.PaymentIntentParams{}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}
	_, err := paymentintent.Update(id, params)
	return err
}
