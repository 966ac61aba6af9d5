package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tacweb/tacweb/app/models"
)

type recordingSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (s *recordingSender) Send(to string, subject string, body string) error {
	s.to = to
	s.subject = subject
	s.body = body
	return s.err
}

func confirmationOrder() *models.Order {
	street := "1 Main St"
	city := "Springfield"
	country := "GB"
	return &models.Order{
		ID:             7,
		OrderNumber:    "AB12CD34",
		FullName:       "Jane Doe",
		Email:          "jane@example.com",
		PhoneNumber:    "0123456789",
		StreetAddress1: &street,
		TownOrCity:     &city,
		Country:        &country,
		GrandTotal:     32.97,
		CreatedAt:      time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestSendConfirmationRendersOrderDetails(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewConfirmationMailer(sender, "shop@example.com")

	err := mailer.SendConfirmation(confirmationOrder())
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", sender.to)
	assert.Equal(t, "Order Confirmation for Order Number AB12CD34", sender.subject)
	assert.Contains(t, sender.body, "Hello Jane Doe,")
	assert.Contains(t, sender.body, "Order Number: AB12CD34")
	assert.Contains(t, sender.body, "Order Date: 15 Mar 2024")
	assert.Contains(t, sender.body, "Order Total: 32.97")
	assert.Contains(t, sender.body, "shipped to 1 Main St, Springfield, GB.")
	assert.Contains(t, sender.body, "phone number on file as 0123456789")
	assert.Contains(t, sender.body, "contact us at shop@example.com")
}

func TestSendConfirmationSkipsAbsentAddressParts(t *testing.T) {
	order := confirmationOrder()
	order.TownOrCity = nil
	order.Country = nil

	sender := &recordingSender{}
	mailer := NewConfirmationMailer(sender, "shop@example.com")

	require.NoError(t, mailer.SendConfirmation(order))
	assert.Contains(t, sender.body, "shipped to 1 Main St.")
}

func TestSendConfirmationPropagatesTransportError(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	mailer := NewConfirmationMailer(sender, "shop@example.com")

	err := mailer.SendConfirmation(confirmationOrder())
	assert.Error(t, err)
}
