package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.LessonProgress{},
		&courseModels.Enrollment{},
		&courseModels.QuizQuestion{},
		&courseModels.QuizOption{},
		&courseModels.QuizAttempt{},
		&courseModels.LearningPath{},
		&courseModels.PathCourse{},
	))

	database.Database = database.DbInstance{Db: db}
	return db
}

// seedQuizLesson creates an enrolled user with a published lesson whose quiz
// has two correct options and one incorrect one
func seedQuizLesson(t *testing.T, db *gorm.DB) (models.User, courseModels.Course, courseModels.Lesson, []courseModels.QuizOption) {
	t.Helper()

	user := models.User{Name: "Jane Learner", Email: "jane@example.com", Password: "x", Plan: "free"}
	require.NoError(t, db.Create(&user).Error)

	crs := courseModels.Course{Title: "Intro to Trading", Instructor: "Alex", IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)

	lesson := courseModels.Lesson{CourseID: crs.ID, Title: "Candlesticks", VideoURL: "https://cdn.example.com/l1.mp4", IsPublished: true}
	require.NoError(t, db.Create(&lesson).Error)

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: crs.ID, Status: courseModels.EnrollmentNotStarted}
	require.NoError(t, db.Create(&enrollment).Error)

	question := courseModels.QuizQuestion{LessonID: lesson.ID, Question: "Which patterns are bullish?"}
	require.NoError(t, db.Create(&question).Error)

	options := []courseModels.QuizOption{
		{QuestionID: question.ID, OptionText: "Hammer", IsCorrect: true, OrderIndex: 0},
		{QuestionID: question.ID, OptionText: "Morning star", IsCorrect: true, OrderIndex: 1},
		{QuestionID: question.ID, OptionText: "Shooting star", IsCorrect: false, OrderIndex: 2},
	}
	for i := range options {
		require.NoError(t, db.Create(&options[i]).Error)
	}
	return user, crs, lesson, options
}

func newQuizApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Post("/course/:course_id/lesson/:lesson_id/quiz/submit", func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}, courseValidator.SubmitQuiz(), SubmitQuizAnswer)
	return app
}

type quizSubmitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		IsPassed bool `json:"is_passed"`
		Score    int  `json:"score"`
		MaxScore int  `json:"max_score"`
	} `json:"data"`
}

func submitQuiz(t *testing.T, app *fiber.App, crs courseModels.Course, lesson courseModels.Lesson, selected []uint) quizSubmitResponse {
	t.Helper()

	body, err := json.Marshal(fiber.Map{"selected_option_ids": selected})
	require.NoError(t, err)

	url := "/course/" + strconv.FormatUint(uint64(crs.ID), 10) + "/lesson/" + strconv.FormatUint(uint64(lesson.ID), 10) + "/quiz/submit"
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed quizSubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func TestSubmitQuizDuplicateSelectionsDoNotPass(t *testing.T) {
	db := setupTestDB(t)
	user, crs, lesson, options := seedQuizLesson(t, db)
	app := newQuizApp(user.ID)

	// Submitting one correct option twice must not count as two answers
	result := submitQuiz(t, app, crs, lesson, []uint{options[0].ID, options[0].ID})
	assert.False(t, result.Data.IsPassed)
	assert.Equal(t, 1, result.Data.Score)
	assert.Equal(t, 2, result.Data.MaxScore)

	// The failed attempt must not mark the lesson complete
	var count int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ? AND lesson_id = ? AND completed = ?", user.ID, lesson.ID, true).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubmitQuizExactSetPasses(t *testing.T) {
	db := setupTestDB(t)
	user, crs, lesson, options := seedQuizLesson(t, db)
	app := newQuizApp(user.ID)

	result := submitQuiz(t, app, crs, lesson, []uint{options[0].ID, options[1].ID})
	assert.True(t, result.Data.IsPassed)
	assert.Equal(t, 2, result.Data.Score)

	// A passed quiz completes the lesson through the progress recorder
	var lp courseModels.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).First(&lp).Error)
	assert.True(t, lp.Completed)
	assert.Equal(t, 100, lp.WatchedPercent)
}

func TestSubmitQuizExtraWrongOptionFails(t *testing.T) {
	db := setupTestDB(t)
	user, crs, lesson, options := seedQuizLesson(t, db)
	app := newQuizApp(user.ID)

	// All correct options plus a wrong one is not an exact match
	result := submitQuiz(t, app, crs, lesson, []uint{options[0].ID, options[1].ID, options[2].ID})
	assert.False(t, result.Data.IsPassed)
	assert.Equal(t, 2, result.Data.Score)

	var count int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ? AND lesson_id = ? AND completed = ?", user.ID, lesson.ID, true).Count(&count)
	assert.Equal(t, int64(0), count)
}
