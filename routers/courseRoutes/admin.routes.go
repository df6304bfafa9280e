package courseRoutes

import (
	adminController "lms/controllers/admin"
	"lms/middleware"
	adminValidator "lms/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the administrative back office routes
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Course management
	adminGroup.Post("/course", adminValidator.CreateCourse(), adminController.CreateCourse)
	adminGroup.Put("/course/:id/publish", adminController.PublishCourse)
	adminGroup.Delete("/course/:id", adminController.DeleteCourse)

	// Lesson management
	adminGroup.Post("/course/:id/lesson", adminValidator.CreateLesson(), adminController.CreateLesson)
	adminGroup.Put("/lesson/:lesson_id/publish", adminController.PublishLesson)

	// Quiz authoring
	adminGroup.Post("/lesson/:lesson_id/quiz", adminValidator.CreateQuiz(), adminController.CreateQuiz)

	// Plan management
	adminGroup.Post("/plan", adminValidator.CreatePlan(), adminController.CreatePlan)

	// Learning path management
	adminGroup.Post("/path", adminValidator.CreatePath(), adminController.CreatePath)
	adminGroup.Put("/path/:id/publish", adminController.PublishPath)

	// Back office overview
	adminGroup.Get("/dashboard", adminController.GetDashboard)
	adminGroup.Get("/certificates", adminController.GetAllCertificates)
	adminGroup.Get("/subscriptions", adminController.GetAllSubscriptions)
}
