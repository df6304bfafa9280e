package controllers

import (
	"errors"
	"lms/certificate"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/storage"
	"lms/tier"
	"lms/utils"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// assetStore picks the configured asset backend: the remote media API when
// configured, local disk otherwise
func assetStore() storage.Store {
	if config.AppConfig.MediaApiURL != "" {
		return storage.NewMedia(config.AppConfig.MediaApiURL, config.AppConfig.MediaApiKey)
	}
	return storage.NewLocal(config.AppConfig.UploadDir)
}

func certService() *certificate.Service {
	renderer := certificate.NewRenderer(config.AppConfig.TemplateDir)
	return certificate.NewService(database.Database.Db, renderer, assetStore())
}

// IssueCertificate issues a certificate for a completed course. The record is
// created first; asset rendering happens right after and may be retried
// later if it fails.
func IssueCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Check enrollment and completion
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if enrollment.Status != courseModels.EnrollmentCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
	}

	// Check if certificate already exists
	cid := uint(courseID)
	var existingCert courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, cid, false).First(&existingCert).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists!", fiber.Map{
			"certificate": existingCert,
		})
	}

	// The issued tier is capped by both the user's plan and the course tier
	cert := courseModels.Certificate{
		UserID:       userID,
		CourseID:     &cid,
		StudentName:  user.Name,
		CourseName:   course.Title,
		Instructor:   course.Instructor,
		Tier:         tier.Effective(user.Plan, course.Tier),
		CredentialID: utils.GenerateCredentialID(),
		IssuedAt:     time.Now(),
	}

	if err := database.Database.Db.Create(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	// Render and upload the assets. A failure here leaves the record pending;
	// the assets endpoint regenerates them on demand.
	assets, err := certService().Generate(c.Context(), cert.ID)
	if err != nil {
		log.Printf("Certificate %s asset generation failed: %v", cert.CredentialID, err)
	} else {
		cert.ImageURL = assets.ImageURL
		cert.PdfURL = assets.PdfURL
	}

	go utils.SendCertificateEmail(user.Email, user.Name, course.Title, cert.CredentialID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}

// GetCertificateAssets returns the rendered asset URLs for a certificate,
// generating them on first access
func GetCertificateAssets(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certID, err := strconv.Atoi(c.Params("id"))
	if err != nil || certID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate ID!", nil)
	}

	// Certificates are only served to their owner
	var cert courseModels.Certificate
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", certID, userID, false).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	assets, err := certService().Generate(c.Context(), cert.ID)
	if err != nil {
		if errors.Is(err, certificate.ErrCertificateNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		log.Printf("Certificate %s asset generation failed: %v", cert.CredentialID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to generate certificate assets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate assets fetched successfully!", assets)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        len(certificates),
	})
}

// VerifyCertificate is the public lookup by credential id printed on a
// certificate. No authentication required.
func VerifyCertificate(c *fiber.Ctx) error {
	credentialID := c.Params("credential_id")
	if credentialID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Credential ID is required!", nil)
	}

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("credential_id = ? AND is_deleted = ?", credentialID, false).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified!", fiber.Map{
		"student_name":  cert.StudentName,
		"course_name":   cert.CourseName,
		"tier":          tier.Normalize(cert.Tier),
		"credential_id": cert.CredentialID,
		"issued_at":     cert.IssuedAt,
	})
}
