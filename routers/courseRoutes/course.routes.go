package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details (published courses)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Lesson watch progress
	courseGroup.Post("/:course_id/lesson/:lesson_id/watch", middleware.JWTMiddleware, validators.WatchProgress(), controllers.RecordWatchProgress)

	// Quizzes
	courseGroup.Get("/:course_id/lesson/:lesson_id/quiz", middleware.JWTMiddleware, validators.LessonParams(), controllers.GetLessonQuiz)
	courseGroup.Post("/:course_id/lesson/:lesson_id/quiz/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuizAnswer)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.CourseProgress(), controllers.GetUserProgress)

	// Certificate issuance
	courseGroup.Post("/:id/certificate", middleware.JWTMiddleware, validators.CourseID(), controllers.IssueCertificate)

	// User enrollments and certificates
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userGroup.Get("/certificates/:id/assets", middleware.JWTMiddleware, controllers.GetCertificateAssets)

	// Learning paths
	pathGroup := app.Group("/path")
	pathGroup.Get("/list", middleware.JWTMiddleware, controllers.GetLearningPaths)
	pathGroup.Get("/:id", middleware.JWTMiddleware, controllers.GetPathDetails)
	pathGroup.Post("/:id/certificate", middleware.JWTMiddleware, controllers.IssuePathCertificate)

	// Public certificate verification by credential id
	app.Get("/verify/:credential_id", controllers.VerifyCertificate)
}
