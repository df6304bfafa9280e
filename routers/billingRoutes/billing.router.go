package billingRoutes

import (
	billingController "lms/controllers/billing"
	"lms/middleware"
	billingValidator "lms/validators/billing"

	"github.com/gofiber/fiber/v2"
)

// SetupBillingRoutes sets up subscription and payment routes
func SetupBillingRoutes(app *fiber.App) {
	billingGroup := app.Group("/billing")

	billingGroup.Get("/plans", billingController.GetPlans)
	billingGroup.Post("/checkout", middleware.JWTMiddleware, billingValidator.Checkout(), billingController.CreateCheckout)
	billingGroup.Get("/subscription", middleware.JWTMiddleware, billingController.GetMySubscription)

	// Provider-signed webhook, verified before trust
	billingGroup.Post("/webhook", billingController.HandleWebhook)
}
