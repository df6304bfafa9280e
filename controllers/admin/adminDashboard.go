package adminController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard returns back-office counts for the admin overview
func GetDashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalCourses, totalEnrollments, totalCertificates, activeSubscriptions int64

	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false).Count(&totalCertificates)
	db.Model(&models.Subscription{}).Where("status = ? AND is_deleted = ?", models.SubscriptionActive, false).Count(&activeSubscriptions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_users":          totalUsers,
		"total_courses":        totalCourses,
		"total_enrollments":    totalEnrollments,
		"total_certificates":   totalCertificates,
		"active_subscriptions": activeSubscriptions,
	})
}

// GetAllCertificates lists issued certificates for the back office
func GetAllCertificates(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var certificates []courseModels.Certificate
	if err := db.Offset(offset).Limit(limit).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetAllSubscriptions lists subscriptions for the back office
func GetAllSubscriptions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status", "")
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&models.Subscription{}).Where("is_deleted = ?", false)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var subscriptions []models.Subscription
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&subscriptions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscriptions!", nil)
	}

	// Add user details to response
	type SubscriptionWithUser struct {
		models.Subscription
		UserName  string `json:"userName"`
		UserEmail string `json:"userEmail"`
	}

	result := make([]SubscriptionWithUser, len(subscriptions))
	for i, sub := range subscriptions {
		var user models.User
		database.Database.Db.Select("name, email").Where("id = ?", sub.UserID).First(&user)
		result[i] = SubscriptionWithUser{
			Subscription: sub,
			UserName:     user.Name,
			UserEmail:    user.Email,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscriptions fetched successfully!", fiber.Map{
		"subscriptions": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
