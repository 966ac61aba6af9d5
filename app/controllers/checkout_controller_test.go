package controllers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func webhookTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/wh/stripe", HandleStripeWebhook)
	return app
}

// signPayload signs a webhook payload the way the processor would.
func signPayload(t *testing.T, payload []byte, secret string) (body []byte, sigHeader string) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestStripeWebhookMissingSignature(t *testing.T) {
	t.Setenv("STRIPE_WH_SECRET", testWebhookSecret)
	app := webhookTestApp()

	req := httptest.NewRequest(http.MethodPost, "/wh/stripe", bytes.NewReader([]byte(`{}`)))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookInvalidSignature(t *testing.T) {
	t.Setenv("STRIPE_WH_SECRET", testWebhookSecret)
	app := webhookTestApp()

	req := httptest.NewRequest(http.MethodPost, "/wh/stripe", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Stripe-Signature", "t=1234567890,v1=invalidsignaturevalue")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookWrongSecret(t *testing.T) {
	t.Setenv("STRIPE_WH_SECRET", testWebhookSecret)
	app := webhookTestApp()

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.payment_failed",
		"api_version": %q,
		"data": {"object": {}}
	}`, stripe.APIVersion))
	body, sigHeader := signPayload(t, payload, "whsec_some_other_secret")

	req := httptest.NewRequest(http.MethodPost, "/wh/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", sigHeader)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookAcknowledgesUnhandledEvent(t *testing.T) {
	t.Setenv("STRIPE_WH_SECRET", testWebhookSecret)
	app := webhookTestApp()

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "charge.refunded",
		"api_version": %q,
		"data": {"object": {}}
	}`, stripe.APIVersion))
	body, sigHeader := signPayload(t, payload, testWebhookSecret)

	req := httptest.NewRequest(http.MethodPost, "/wh/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", sigHeader)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBody), "Unhandled webhook received: charge.refunded")
}

func TestStripeWebhookAcknowledgesPaymentFailed(t *testing.T) {
	t.Setenv("STRIPE_WH_SECRET", testWebhookSecret)
	app := webhookTestApp()

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.payment_failed",
		"api_version": %q,
		"data": {"object": {"id": "pi_1"}}
	}`, stripe.APIVersion))
	body, sigHeader := signPayload(t, payload, testWebhookSecret)

	req := httptest.NewRequest(http.MethodPost, "/wh/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", sigHeader)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIntentIDFromClientSecret(t *testing.T) {
	assert.Equal(t, "pi_123", intentIDFromClientSecret("pi_123_secret_abc"))
	assert.Equal(t, "pi_123", intentIDFromClientSecret("  pi_123_secret_abc  "))
	assert.Equal(t, "", intentIDFromClientSecret(""))
	assert.Equal(t, "no-secret-part", intentIDFromClientSecret("no-secret-part"))
}
