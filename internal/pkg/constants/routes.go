package constants

// Static route constants
const (
	HomeRoute            = "/"
	AccountRoute         = "/account"
	CheckoutRoute        = "/checkout"
	CheckoutCacheRoute   = "/checkout/cache"
	CheckoutSuccessRoute = "/checkout/success/:orderNumber"
	StripeWebhookRoute   = "/wh/stripe"
)
