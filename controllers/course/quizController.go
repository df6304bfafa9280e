package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"
	"log"

	"github.com/gofiber/fiber/v2"
)

// GetLessonQuiz returns the quiz questions for a lesson with the correct
// answers stripped out
func GetLessonQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var questions []courseModels.QuizQuestion
	database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Order("order_index asc").Find(&questions)

	type QuestionWithOptions struct {
		courseModels.QuizQuestion
		Options []courseModels.QuizOption `json:"options"`
	}

	result := make([]QuestionWithOptions, len(questions))
	for i, q := range questions {
		var options []courseModels.QuizOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", q.ID, false).Order("order_index asc").Find(&options)
		// Never show answers to students
		for j := range options {
			options[j].IsCorrect = false
		}
		result[i] = QuestionWithOptions{QuizQuestion: q, Options: options}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"questions": result,
	})
}

// SubmitQuizAnswer submits and evaluates a lesson quiz attempt. A fully
// correct attempt marks the lesson completed through the progress recorder.
func SubmitQuizAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check lesson exists and has a quiz
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Find(&questions)
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson has no quiz!", nil)
	}

	reqData, ok := c.Locals("validatedQuizSubmit").(*struct {
		SelectedOptionIDs []uint `json:"selected_option_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Collect the correct options across the lesson's questions
	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}

	var correctOptions []courseModels.QuizOption
	database.Database.Db.Where("question_id IN ? AND is_correct = ? AND is_deleted = ?", questionIDs, true, false).Find(&correctOptions)

	correctOptionIDs := make(map[uint]bool)
	for _, opt := range correctOptions {
		correctOptionIDs[opt.ID] = true
	}

	// Deduplicate before scoring; repeating an option must not count twice
	selectedSet := make(map[uint]bool)
	for _, selectedID := range reqData.SelectedOptionIDs {
		selectedSet[selectedID] = true
	}

	correctCount := 0
	for selectedID := range selectedSet {
		if correctOptionIDs[selectedID] {
			correctCount++
		}
	}

	// Pass only when the selected set matches the correct set exactly
	isPassed := correctCount == len(correctOptions) && len(selectedSet) == len(correctOptions)

	// Get attempt number
	var attemptCount int64
	database.Database.Db.Model(&courseModels.QuizAttempt{}).Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).Count(&attemptCount)

	// Store selected options as JSON
	selectedJSON, _ := json.Marshal(reqData.SelectedOptionIDs)

	attempt := courseModels.QuizAttempt{
		UserID:          userID,
		LessonID:        uint(lessonID),
		SelectedOptions: string(selectedJSON),
		Score:           correctCount,
		MaxScore:        len(correctOptions),
		IsPassed:        isPassed,
		AttemptNumber:   int(attemptCount) + 1,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answer!", nil)
	}

	// A passed quiz completes the lesson
	if isPassed {
		recorder := progress.NewRecorder(database.Database.Db)
		if _, err := recorder.RecordWatch(userID, uint(courseID), uint(lessonID), 100); err != nil {
			log.Printf("Failed to record lesson %d completion for user %d: %v", lessonID, userID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", fiber.Map{
		"attempt":   attempt,
		"is_passed": isPassed,
		"score":     correctCount,
		"max_score": len(correctOptions),
	})
}
