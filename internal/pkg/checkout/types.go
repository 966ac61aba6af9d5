package checkout

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// PlaceholderEmail is stored when neither billing nor shipping details carry
// a customer email.
const PlaceholderEmail = "noemail@example.com"

// AnonymousUser is the username the checkout page sends for guests. It never
// resolves to a profile.
const AnonymousUser = "AnonymousUser"

// PaymentIntent is the slice of the processor's payment_intent object the
// reconciliation handler needs. The event payload is parsed into this shape
// once; the full SDK struct is not used here because current API generations
// deliver the latest charge as a bare ID and omit charge line data entirely,
// so a secondary charge lookup is required either way.
type PaymentIntent struct {
	ID           string            `json:"id"`
	Metadata     map[string]string `json:"metadata"`
	Shipping     *ShippingDetails  `json:"shipping"`
	LatestCharge ChargeRef         `json:"latest_charge"`
}

// ChargeRef is the intent's reference to its authoritative charge. Depending
// on API version and expansion it arrives as a bare ID string or as an
// embedded object; both collapse to the ID here.
type ChargeRef string

func (r *ChargeRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ChargeRef(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = ChargeRef(obj.ID)
	return nil
}

// ShippingDetails is the shipping block of the intent. Email is not part of
// the processor's shipping hash in current API versions but is tolerated
// when present, because it is the second step of the email fallback chain.
type ShippingDetails struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Email   string          `json:"email,omitempty"`
	Address ShippingAddress `json:"address"`
}

// ShippingAddress mirrors the processor's address hash. Fields arrive as
// empty strings when the customer left them blank.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ParsePaymentIntent decodes the raw payment_intent object from an event
// payload.
func ParsePaymentIntent(raw json.RawMessage) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, err
	}
	if intent.ID == "" {
		return nil, errors.New("payment intent payload has no id")
	}
	if intent.Metadata == nil {
		intent.Metadata = map[string]string{}
	}
	if intent.Shipping == nil {
		intent.Shipping = &ShippingDetails{}
	}
	return &intent, nil
}

// SaveInfo reports whether the checkout was submitted with the
// save-delivery-info box ticked.
func (p *PaymentIntent) SaveInfo() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(p.Metadata["save_info"]))
	return err == nil && v
}

// Username returns the authenticated username the checkout page attached, or
// "" for guests.
func (p *PaymentIntent) Username() string {
	name := strings.TrimSpace(p.Metadata["username"])
	if name == "" || name == AnonymousUser {
		return ""
	}
	return name
}

// nullable rewrites an empty string to NULL. The order store treats "" and
// absent as the same identity, and some configurations reject "" outright on
// optional geographic columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NormalizedAddress is the shipping address after blank-field cleaning, in
// the pointer form the order store persists.
type NormalizedAddress struct {
	Country        *string
	Postcode       *string
	TownOrCity     *string
	StreetAddress1 *string
	StreetAddress2 *string
	County         *string
}

// Normalize cleans blank address fields to absent.
func (a ShippingAddress) Normalize() NormalizedAddress {
	return NormalizedAddress{
		Country:        nullable(a.Country),
		Postcode:       nullable(a.PostalCode),
		TownOrCity:     nullable(a.City),
		StreetAddress1: nullable(a.Line1),
		StreetAddress2: nullable(a.Line2),
		County:         nullable(a.State),
	}
}
