package checkout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentIntent(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "pi_123",
		"metadata": {"bag": "{\"42\": 3}", "username": "jane", "save_info": "true"},
		"shipping": {
			"name": "Jane Doe",
			"phone": "0123456789",
			"address": {"line1": "1 Main St", "line2": "", "city": "Springfield", "state": "", "postal_code": "AB1 2CD", "country": "GB"}
		},
		"latest_charge": "ch_123"
	}`)

	intent, err := ParsePaymentIntent(raw)
	assert.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "ch_123", string(intent.LatestCharge))
	assert.Equal(t, "Jane Doe", intent.Shipping.Name)
	assert.Equal(t, "jane", intent.Username())
	assert.True(t, intent.SaveInfo())
}

func TestParsePaymentIntentExpandedCharge(t *testing.T) {
	raw := json.RawMessage(`{"id": "pi_123", "latest_charge": {"id": "ch_456", "amount": 1999}}`)

	intent, err := ParsePaymentIntent(raw)
	assert.NoError(t, err)
	assert.Equal(t, "ch_456", string(intent.LatestCharge))
}

func TestParsePaymentIntentDefaults(t *testing.T) {
	intent, err := ParsePaymentIntent(json.RawMessage(`{"id": "pi_1"}`))
	assert.NoError(t, err)
	assert.NotNil(t, intent.Metadata)
	assert.NotNil(t, intent.Shipping)
	assert.Equal(t, "", string(intent.LatestCharge))
}

func TestParsePaymentIntentRejectsMissingID(t *testing.T) {
	_, err := ParsePaymentIntent(json.RawMessage(`{}`))
	assert.Error(t, err)

	_, err = ParsePaymentIntent(json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestUsernameAnonymousIsGuest(t *testing.T) {
	tests := []struct {
		meta map[string]string
		want string
	}{
		{meta: map[string]string{"username": "AnonymousUser"}, want: ""},
		{meta: map[string]string{"username": ""}, want: ""},
		{meta: map[string]string{}, want: ""},
		{meta: map[string]string{"username": "  jane  "}, want: "jane"},
	}

	for _, tt := range tests {
		intent := &PaymentIntent{Metadata: tt.meta}
		assert.Equal(t, tt.want, intent.Username())
	}
}

func TestSaveInfoParsing(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{val: "true", want: true},
		{val: "True", want: true},
		{val: "1", want: true},
		{val: "false", want: false},
		{val: "", want: false},
		{val: "yes", want: false},
	}

	for _, tt := range tests {
		intent := &PaymentIntent{Metadata: map[string]string{"save_info": tt.val}}
		assert.Equal(t, tt.want, intent.SaveInfo(), "save_info=%q", tt.val)
	}
}

func TestShippingAddressNormalize(t *testing.T) {
	addr := ShippingAddress{
		Line1:      "1 Main St",
		Line2:      "",
		City:       "Springfield",
		State:      "",
		PostalCode: "AB1 2CD",
		Country:    "GB",
	}

	n := addr.Normalize()
	assert.Equal(t, "1 Main St", *n.StreetAddress1)
	assert.Nil(t, n.StreetAddress2)
	assert.Equal(t, "Springfield", *n.TownOrCity)
	assert.Nil(t, n.County)
	assert.Equal(t, "AB1 2CD", *n.Postcode)
	assert.Equal(t, "GB", *n.Country)
}

func TestShippingAddressNormalizeAllBlank(t *testing.T) {
	n := ShippingAddress{}.Normalize()
	assert.Nil(t, n.Country)
	assert.Nil(t, n.Postcode)
	assert.Nil(t, n.TownOrCity)
	assert.Nil(t, n.StreetAddress1)
	assert.Nil(t, n.StreetAddress2)
	assert.Nil(t, n.County)
}
