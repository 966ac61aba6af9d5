package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82"
	"github.com/tacweb/tacweb/app/models"
	"gorm.io/gorm"
)

const (
	// How long the handler polls for an order the checkout page may still be
	// writing. The processor retries on our 500s, so the window only has to
	// cover the common race, not every pathological delay.
	defaultLookupAttempts = 5
	defaultLookupDelay    = time.Second
)

// Result is the HTTP-style outcome of one webhook delivery. The processor
// only looks at the status; the message is diagnostic text for its event log.
type Result struct {
	Status  int
	Message string
}

// ChargeRetriever fetches the authoritative charge for an intent. The
// intent's own record does not carry charge data in current API generations,
// so every succeeded event costs one extra processor round trip.
type ChargeRetriever interface {
	Get(id string, params *stripe.ChargeParams) (*stripe.Charge, error)
}

// ConfirmationSender delivers the order confirmation mail. Failures are the
// mail collaborator's problem; the handler logs and moves on.
type ConfirmationSender interface {
	SendConfirmation(order *models.Order) error
}

// Handler reconciles asynchronous payment events with locally stored orders.
// Each delivery is handled as an independent, stateless invocation; the only
// concurrency accommodation is the bounded existence-poll against the order
// store.
type Handler struct {
	repo    Repository
	charges ChargeRetriever
	mail    ConfirmationSender

	lookupAttempts int
	lookupDelay    time.Duration
}

// NewHandler creates a webhook handler with the default lookup window.
func NewHandler(repo Repository, charges ChargeRetriever, mail ConfirmationSender) *Handler {
	return &Handler{
		repo:           repo,
		charges:        charges,
		mail:           mail,
		lookupAttempts: defaultLookupAttempts,
		lookupDelay:    defaultLookupDelay,
	}
}

// HandleEvent dispatches one verified webhook event. Every recognized or
// unrecognized-but-benign outcome acknowledges with 200 so the processor
// stops retrying; only a failed order build returns 500.
func (h *Handler) HandleEvent(ctx context.Context, event stripe.Event) Result {
	switch event.Type {
	case "payment_intent.succeeded":
		return h.handlePaymentIntentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return h.handlePaymentIntentFailed(event)
	default:
		return h.handleUnknown(event)
	}
}

func (h *Handler) handleUnknown(event stripe.Event) Result {
	log.Printf("unhandled stripe webhook event type %s (id %s)", event.Type, event.ID)
	return Result{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Unhandled webhook received: %s", event.Type),
	}
}

func (h *Handler) handlePaymentIntentFailed(event stripe.Event) Result {
	log.Printf("payment failed for stripe webhook event %s", event.ID)
	return Result{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Webhook received: %s", event.Type),
	}
}

func (h *Handler) handlePaymentIntentSucceeded(ctx context.Context, event stripe.Event) Result {
	if event.Data == nil {
		return h.errorResult(event, errors.New("event carries no payload"))
	}
	intent, err := ParsePaymentIntent(event.Data.Raw)
	if err != nil {
		return h.errorResult(event, fmt.Errorf("invalid payment intent payload: %w", err))
	}

	bag := ParseBag(intent.Metadata["bag"])

	chargeID := string(intent.LatestCharge)
	if chargeID == "" {
		return h.errorResult(event, errors.New("payment intent has no latest charge"))
	}
	charge, err := h.charges.Get(chargeID, nil)
	if err != nil {
		return h.errorResult(event, fmt.Errorf("charge lookup failed: %w", err))
	}

	shipping := intent.Shipping
	email := resolveEmail(charge, shipping)
	grandTotal := grandTotalFromAmount(charge.Amount)
	address := shipping.Address.Normalize()

	// Save-info handling is independent of order reconciliation and runs
	// exactly once per successful event, also on the already-exists path.
	profile, res := h.updateProfile(event, intent, shipping, address)
	if res != nil {
		return *res
	}

	identity := OrderIdentity{
		FullName:       shipping.Name,
		Email:          email,
		PhoneNumber:    shipping.Phone,
		Country:        address.Country,
		Postcode:       address.Postcode,
		TownOrCity:     address.TownOrCity,
		StreetAddress1: address.StreetAddress1,
		StreetAddress2: address.StreetAddress2,
		County:         address.County,
		GrandTotal:     grandTotal,
		OriginalBag:    bag.Serialize(),
		StripePID:      intent.ID,
	}

	// The checkout form may not have committed its own write yet when the
	// webhook arrives. Poll before concluding the order does not exist.
	existing, err := h.pollForOrder(ctx, identity)
	if err != nil {
		return h.errorResult(event, fmt.Errorf("order lookup failed: %w", err))
	}
	if existing != nil {
		h.sendConfirmation(existing)
		return Result{
			Status:  fiber.StatusOK,
			Message: fmt.Sprintf("Webhook received: %s | SUCCESS: Verified order already in database", event.Type),
		}
	}

	order, err := PlaceOrder(h.repo, identity, bag, profile)
	if err != nil {
		return h.errorResult(event, err)
	}

	h.sendConfirmation(order)
	return Result{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Webhook received: %s | SUCCESS: Created order in webhook", event.Type),
	}
}

// updateProfile resolves the intent's user profile and, when save-info was
// ticked, overwrites the stored default shipping details. Returns a non-nil
// Result on failure.
func (h *Handler) updateProfile(event stripe.Event, intent *PaymentIntent, shipping *ShippingDetails, address NormalizedAddress) (*models.UserProfile, *Result) {
	username := intent.Username()
	if username == "" {
		return nil, nil
	}

	profile, err := h.repo.GetProfileByUsername(username)
	if err != nil {
		res := h.errorResult(event, fmt.Errorf("profile lookup for %q failed: %w", username, err))
		return nil, &res
	}
	if !intent.SaveInfo() {
		return profile, nil
	}

	profile.DefaultPhoneNumber = nullable(shipping.Phone)
	profile.DefaultCountry = address.Country
	profile.DefaultPostcode = address.Postcode
	profile.DefaultTownOrCity = address.TownOrCity
	profile.DefaultStreetAddress1 = address.StreetAddress1
	profile.DefaultStreetAddress2 = address.StreetAddress2
	profile.DefaultCounty = address.County
	if err := h.repo.SaveProfile(profile); err != nil {
		res := h.errorResult(event, fmt.Errorf("profile save failed: %w", err))
		return nil, &res
	}
	return profile, nil
}

// pollForOrder retries the identity lookup with a pause between attempts.
// Returns (nil, nil) when the order genuinely does not exist yet.
func (h *Handler) pollForOrder(ctx context.Context, identity OrderIdentity) (*models.Order, error) {
	for attempt := 1; attempt <= h.lookupAttempts; attempt++ {
		order, err := h.repo.FindOrderByIdentity(identity)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(h.lookupDelay):
		}
	}
	return nil, nil
}

// PlaceOrder writes an order and its line items, for both the checkout form
// and the webhook fallback path. There is no multi-row transaction spanning
// order and items; a failed item build compensates by deleting the
// just-created order so a later retry starts from a clean absence.
func PlaceOrder(repo Repository, identity OrderIdentity, bag Bag, profile *models.UserProfile) (*models.Order, error) {
	order := &models.Order{
		OrderNumber:    models.NewOrderNumber(),
		FullName:       identity.FullName,
		Email:          identity.Email,
		PhoneNumber:    identity.PhoneNumber,
		Country:        identity.Country,
		Postcode:       identity.Postcode,
		TownOrCity:     identity.TownOrCity,
		StreetAddress1: identity.StreetAddress1,
		StreetAddress2: identity.StreetAddress2,
		County:         identity.County,
		GrandTotal:     identity.GrandTotal,
		OriginalBag:    identity.OriginalBag,
		StripePID:      identity.StripePID,
	}
	if profile != nil {
		order.UserProfileID = &profile.ID
	}

	if err := repo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("order create failed: %w", err)
	}

	if err := createLineItems(repo, order, bag); err != nil {
		if delErr := repo.DeleteOrder(order.ID); delErr != nil {
			log.Printf("rollback of order %d failed: %v", order.ID, delErr)
		}
		return nil, err
	}
	return order, nil
}

func createLineItems(repo Repository, order *models.Order, bag Bag) error {
	for _, rawID := range bag.ProductIDs() {
		productID, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q in bag: %w", rawID, err)
		}
		product, err := repo.GetProductByID(uint(productID))
		if err != nil {
			return fmt.Errorf("product %s lookup failed: %w", rawID, err)
		}

		item := bag[rawID]
		if !item.HasSizes() {
			if err := createLineItem(repo, order, product, item.Quantity, nil); err != nil {
				return err
			}
			continue
		}

		sizes := make([]string, 0, len(item.ItemsBySize))
		for size := range item.ItemsBySize {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)
		for _, size := range sizes {
			s := size
			if err := createLineItem(repo, order, product, item.ItemsBySize[size], &s); err != nil {
				return err
			}
		}
	}
	return nil
}

func createLineItem(repo Repository, order *models.Order, product *models.Product, quantity int, size *string) error {
	item := &models.OrderLineItem{
		OrderID:       order.ID,
		ProductID:     product.ID,
		ProductSize:   size,
		Quantity:      quantity,
		LineItemTotal: math.Round(product.Price*float64(quantity)*100) / 100,
	}
	if err := repo.CreateOrderLineItem(item); err != nil {
		return fmt.Errorf("line item create for product %d failed: %w", product.ID, err)
	}
	return nil
}

func (h *Handler) sendConfirmation(order *models.Order) {
	if h.mail == nil {
		return
	}
	if err := h.mail.SendConfirmation(order); err != nil {
		log.Printf("confirmation mail for order %s failed: %v", order.OrderNumber, err)
	}
}

func (h *Handler) errorResult(event stripe.Event, err error) Result {
	log.Printf("stripe webhook event %s: %v", event.ID, err)
	return Result{
		Status:  fiber.StatusInternalServerError,
		Message: fmt.Sprintf("Webhook received: %s | ERROR: %v", event.Type, err),
	}
}

// resolveEmail derives the customer email: billing email first, shipping
// email second, fixed placeholder last. A missing email never fails the
// webhook.
func resolveEmail(charge *stripe.Charge, shipping *ShippingDetails) string {
	if charge.BillingDetails != nil && charge.BillingDetails.Email != "" {
		return charge.BillingDetails.Email
	}
	if shipping.Email != "" {
		return shipping.Email
	}
	return PlaceholderEmail
}

// grandTotalFromAmount converts a charge amount in minor currency units to
// the stored grand total, rounded to two decimal places.
func grandTotalFromAmount(amount int64) float64 {
	return math.Round(float64(amount)) / 100
}
