package controllers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/sujit-baniya/flash"

	"github.com/tacweb/tacweb/app/models"
	"github.com/tacweb/tacweb/internal/pkg/checkout"
	"github.com/tacweb/tacweb/internal/pkg/database"
	"github.com/tacweb/tacweb/internal/pkg/env"
	"github.com/tacweb/tacweb/internal/pkg/mail"
	"github.com/tacweb/tacweb/internal/pkg/payments"
	"github.com/tacweb/tacweb/internal/pkg/session"
)

// HandleCheckoutPage opens a payment intent for the session bag and renders
// the payment form.
func HandleCheckoutPage(c *fiber.Ctx) error {
	rawBag := session.GetSessionValue(c, session.KeyBag)
	bag := checkout.ParseBag(rawBag)
	if len(bag) == 0 {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "There's nothing in your bag at the moment"}).Redirect("/")
	}

	repo := checkout.NewRepository(database.GetDB())
	totals, err := checkout.ComputeTotals(bag, repo)
	if err != nil {
		log.Printf("checkout totals failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "One of the products in your bag wasn't found"}).Redirect("/")
	}

	username := session.Username(c)
	if username == "" {
		username = checkout.AnonymousUser
	}
	intent, err := payments.CreateIntent(totals.AmountMinorUnits(), map[string]string{
		"bag":      bag.Serialize(),
		"username": username,
	})
	if err != nil {
		log.Printf("payment intent creation failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Sorry, we couldn't start the payment. Please try again"}).Redirect("/")
	}

	return c.Render("checkout", fiber.Map{
		"Title":           "Checkout",
		"Username":        session.Username(c),
		"Bag":             bag,
		"Totals":          totals,
		"StripePublicKey": payments.PublicKey(),
		"ClientSecret":    intent.ClientSecret,
		"Flash":           flash.Get(c),
	}, "layouts/main")
}

// HandleCacheCheckoutData stores the save-info choice on the intent before
// the card is confirmed, so the webhook sees it even when our own submit
// never lands.
func HandleCacheCheckoutData(c *fiber.Ctx) error {
	pid := intentIDFromClientSecret(c.FormValue("client_secret"))
	if pid == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing client_secret")
	}

	username := session.Username(c)
	if username == "" {
		username = checkout.AnonymousUser
	}
	err := payments.UpdateIntentMetadata(pid, map[string]string{
		"bag":       checkout.ParseBag(session.GetSessionValue(c, session.KeyBag)).Serialize(),
		"save_info": c.FormValue("save_info"),
		"username":  username,
	})
	if err != nil {
		log.Printf("caching checkout data on intent %s failed: %v", pid, err)
		return c.Status(fiber.StatusBadRequest).SendString("unable to cache checkout data")
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleCheckoutSubmit persists the order after the payment was confirmed in
// the browser. The webhook handler is the fallback writer when this request
// never arrives.
func HandleCheckoutSubmit(c *fiber.Ctx) error {
	rawBag := session.GetSessionValue(c, session.KeyBag)
	bag := checkout.ParseBag(rawBag)
	if len(bag) == 0 {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "There's nothing in your bag at the moment"}).Redirect("/")
	}

	repo := checkout.NewRepository(database.GetDB())
	totals, err := checkout.ComputeTotals(bag, repo)
	if err != nil {
		log.Printf("checkout totals failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "One of the products in your bag wasn't found"}).Redirect("/")
	}

	address := checkout.ShippingAddress{
		Line1:      strings.TrimSpace(c.FormValue("street_address1")),
		Line2:      strings.TrimSpace(c.FormValue("street_address2")),
		City:       strings.TrimSpace(c.FormValue("town_or_city")),
		State:      strings.TrimSpace(c.FormValue("county")),
		PostalCode: strings.TrimSpace(c.FormValue("postcode")),
		Country:    strings.TrimSpace(c.FormValue("country")),
	}.Normalize()

	identity := checkout.OrderIdentity{
		FullName:       strings.TrimSpace(c.FormValue("full_name")),
		Email:          strings.TrimSpace(c.FormValue("email")),
		PhoneNumber:    strings.TrimSpace(c.FormValue("phone_number")),
		Country:        address.Country,
		Postcode:       address.Postcode,
		TownOrCity:     address.TownOrCity,
		StreetAddress1: address.StreetAddress1,
		StreetAddress2: address.StreetAddress2,
		County:         address.County,
		GrandTotal:     totals.GrandTotal,
		OriginalBag:    bag.Serialize(),
		StripePID:      intentIDFromClientSecret(c.FormValue("client_secret")),
	}

	profile, _ := resolveSessionProfile(c, repo)
	order, err := checkout.PlaceOrder(repo, identity, bag, profile)
	if err != nil {
		log.Printf("checkout order placement failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Sorry, your order couldn't be processed. Please contact us"}).Redirect("/checkout")
	}

	if err := session.SetSessionValue(c, session.KeyBag, ""); err != nil {
		log.Printf("clearing bag after checkout failed: %v", err)
	}

	return c.Redirect("/checkout/success/"+order.OrderNumber, fiber.StatusSeeOther)
}

// HandleCheckoutSuccess renders the thank-you page for a placed order.
func HandleCheckoutSuccess(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")
	repo := checkout.NewRepository(database.GetDB())
	order, err := repo.GetOrderByNumber(orderNumber)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.Render("checkout_success", fiber.Map{
		"Title":    "Order Confirmed",
		"Username": session.Username(c),
		"Order":    order,
		"Flash":    flash.Get(c),
	}, "layouts/main")
}

// HandleStripeWebhook receives payment events from the processor, verifies
// the delivery signature and hands the event to the reconciliation handler.
// The processor retries on anything but 2xx.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.BodyRaw()...)
	sig := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, sig, payments.WebhookSecret())
	if err != nil {
		log.Printf("stripe webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("invalid signature")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mailer := mail.NewMailer(mail.ConfigFromEnv())
	handler := checkout.NewHandler(
		checkout.NewRepository(database.GetDB()),
		payments.NewChargeClient(),
		checkout.NewConfirmationMailer(mailer, env.GetEnv("DEFAULT_FROM_EMAIL", mailer.Sender())),
	)

	result := handler.HandleEvent(ctx, event)
	return c.Status(result.Status).SendString(result.Message)
}

func resolveSessionProfile(c *fiber.Ctx, repo checkout.Repository) (*models.UserProfile, error) {
	username := session.Username(c)
	if username == "" {
		return nil, nil
	}
	return repo.GetProfileByUsername(username)
}

// intentIDFromClientSecret extracts the payment intent ID from a Stripe
// client secret of the form "pi_xxx_secret_yyy".
func intentIDFromClientSecret(clientSecret string) string {
	secret := strings.TrimSpace(clientSecret)
	if secret == "" {
		return ""
	}
	return strings.Split(secret, "_secret")[0]
}
