package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/tier"
	"lms/utils"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetLearningPaths lists published learning paths
func GetLearningPaths(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var paths []courseModels.LearningPath
	if err := database.Database.Db.Where("is_deleted = ? AND is_published = ?", false, true).Order("created_at desc").Find(&paths).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch learning paths!", nil)
	}

	type PathWithCount struct {
		courseModels.LearningPath
		CourseCount int64 `json:"course_count"`
	}

	result := make([]PathWithCount, len(paths))
	for i, p := range paths {
		var count int64
		database.Database.Db.Model(&courseModels.PathCourse{}).Where("path_id = ? AND is_deleted = ?", p.ID, false).Count(&count)
		result[i] = PathWithCount{LearningPath: p, CourseCount: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning paths fetched successfully!", fiber.Map{
		"paths": result,
		"total": len(result),
	})
}

// GetPathDetails returns a learning path with its courses and the user's
// completion state for each
func GetPathDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	pathID, err := strconv.Atoi(c.Params("id"))
	if err != nil || pathID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid path ID!", nil)
	}

	var path courseModels.LearningPath
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", pathID, false, true).First(&path).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
	}

	var links []courseModels.PathCourse
	database.Database.Db.Where("path_id = ? AND is_deleted = ?", pathID, false).Order("order_index asc").Find(&links)

	type PathCourseDetail struct {
		courseModels.Course
		OrderIndex  int    `json:"order_index"`
		Status      string `json:"status"`
		Progress    int    `json:"progress"`
		IsCompleted bool   `json:"is_completed"`
	}

	completedAll := len(links) > 0
	result := make([]PathCourseDetail, 0, len(links))
	for _, link := range links {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", link.CourseID, false).First(&course).Error; err != nil {
			// A deleted course can no longer be completed, so the path can't be either
			completedAll = false
			continue
		}

		detail := PathCourseDetail{Course: course, OrderIndex: link.OrderIndex, Status: courseModels.EnrollmentNotStarted}

		var enrollment courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, link.CourseID, false).First(&enrollment).Error; err == nil {
			detail.Status = enrollment.Status
			detail.Progress = enrollment.Progress
			detail.IsCompleted = enrollment.Status == courseModels.EnrollmentCompleted
		}
		if !detail.IsCompleted {
			completedAll = false
		}

		result = append(result, detail)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning path fetched successfully!", fiber.Map{
		"path":          path,
		"courses":       result,
		"completed_all": completedAll,
	})
}

// IssuePathCertificate issues a certificate for a learning path once every
// course in the path is completed
func IssuePathCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	pathID, err := strconv.Atoi(c.Params("id"))
	if err != nil || pathID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid path ID!", nil)
	}

	var path courseModels.LearningPath
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", pathID, false, true).First(&path).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
	}

	var links []courseModels.PathCourse
	database.Database.Db.Where("path_id = ? AND is_deleted = ?", pathID, false).Find(&links)
	if len(links) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Learning path has no courses!", nil)
	}

	// Every course in the path must be completed
	for _, link := range links {
		var enrollment courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
			userID, link.CourseID, courseModels.EnrollmentCompleted, false).First(&enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete all courses in this path first!", nil)
		}
	}

	pid := uint(pathID)
	var existingCert courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND path_id = ? AND is_deleted = ?", userID, pid, false).First(&existingCert).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists!", fiber.Map{
			"certificate": existingCert,
		})
	}

	cert := courseModels.Certificate{
		UserID:       userID,
		PathID:       &pid,
		StudentName:  user.Name,
		CourseName:   path.Title,
		Tier:         tier.Effective(user.Plan, path.Tier),
		CredentialID: utils.GenerateCredentialID(),
		IssuedAt:     time.Now(),
	}

	if err := database.Database.Db.Create(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	assets, err := certService().Generate(c.Context(), cert.ID)
	if err != nil {
		log.Printf("Certificate %s asset generation failed: %v", cert.CredentialID, err)
	} else {
		cert.ImageURL = assets.ImageURL
		cert.PdfURL = assets.PdfURL
	}

	go utils.SendCertificateEmail(user.Email, user.Name, path.Title, cert.CredentialID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}
