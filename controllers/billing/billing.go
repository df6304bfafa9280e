package billingController

import (
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/payment"
	"log"

	"github.com/gofiber/fiber/v2"
)

func paymentClient() *payment.Client {
	return payment.NewClient(
		config.AppConfig.PaymentApiURL,
		config.AppConfig.PaymentApiKey,
		config.AppConfig.CheckoutSuccessURL,
		config.AppConfig.CheckoutCancelURL,
	)
}

// GetPlans lists active subscription plans
func GetPlans(c *fiber.Ctx) error {
	var plans []models.Plan
	if err := database.Database.Db.Where("is_active = ? AND is_deleted = ?", true, false).Order("price asc").Find(&plans).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch plans!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plans fetched successfully!", fiber.Map{
		"plans": plans,
	})
}

// CreateCheckout opens a hosted checkout session for a plan
func CreateCheckout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCheckout").(*struct {
		PlanName string `json:"plan_name"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var plan models.Plan
	if err := database.Database.Db.Where("name = ? AND is_active = ? AND is_deleted = ?", reqData.PlanName, true, false).First(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Plan not found!", nil)
	}

	session, err := paymentClient().CreateCheckoutSession(c.Context(), plan.ProviderPriceRef, user.Email, user.ID)
	if err != nil {
		log.Printf("Checkout session creation failed for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create checkout session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", session)
}

// HandleWebhook receives signed payment provider events. The signature is
// verified before anything is trusted or written.
func HandleWebhook(c *fiber.Ctx) error {
	signature := c.Get("X-Webhook-Signature")
	if signature == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Missing webhook signature!", nil)
	}

	processor := payment.NewProcessor(database.Database.Db, config.AppConfig.PaymentWebhookKey)
	if err := processor.Handle(c.Body(), signature); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook signature!", nil)
		case errors.Is(err, payment.ErrUnknownEvent):
			// Acknowledge event types we don't handle so the provider stops retrying
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
		default:
			log.Printf("Webhook processing failed: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process webhook!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed.", nil)
}

// GetMySubscription returns the user's latest subscription
func GetMySubscription(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var subscription models.Subscription
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No subscription found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription fetched successfully!", subscription)
}
