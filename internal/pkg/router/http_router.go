package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tacweb/tacweb/app/controllers"
	"github.com/tacweb/tacweb/internal/pkg/constants"
	"github.com/tacweb/tacweb/internal/pkg/database"
	"github.com/tacweb/tacweb/internal/pkg/session"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// wire controllers to the database
	controllers.InitializeControllers(database.GetDB())

	h.registerPublicRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.HomeRoute, controllers.HandleHome)

	app.Get(constants.AccountRoute, controllers.HandleAccountPage)
	app.Post(constants.AccountRoute+"/login", controllers.HandleLogin)
	app.Post(constants.AccountRoute+"/register", controllers.HandleRegister)
	app.Post(constants.AccountRoute+"/logout", controllers.HandleLogout)

	app.Get(constants.CheckoutRoute, controllers.HandleCheckoutPage)
	app.Post(constants.CheckoutRoute, controllers.HandleCheckoutSubmit)
	app.Post(constants.CheckoutCacheRoute, controllers.HandleCacheCheckoutData)
	app.Get(constants.CheckoutSuccessRoute, controllers.HandleCheckoutSuccess)

	// Webhook deliveries are signed by the processor, no session needed.
	app.Post(constants.StripeWebhookRoute, controllers.HandleStripeWebhook)
}
