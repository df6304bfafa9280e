package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPathApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Get("/path/:id", func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}, GetPathDetails)
	return app
}

func seedPathWithCourses(t *testing.T, db *gorm.DB) (models.User, courseModels.LearningPath, []courseModels.Course) {
	t.Helper()

	user := models.User{Name: "Jane Learner", Email: "jane@example.com", Password: "x", Plan: "free"}
	require.NoError(t, db.Create(&user).Error)

	path := courseModels.LearningPath{Title: "Trading Track", Tier: "PREMIUM", IsPublished: true}
	require.NoError(t, db.Create(&path).Error)

	courses := []courseModels.Course{
		{Title: "Basics", Instructor: "Alex", IsPublished: true},
		{Title: "Advanced", Instructor: "Alex", IsPublished: true},
	}
	for i := range courses {
		require.NoError(t, db.Create(&courses[i]).Error)
		link := courseModels.PathCourse{PathID: path.ID, CourseID: courses[i].ID, OrderIndex: i}
		require.NoError(t, db.Create(&link).Error)
	}
	return user, path, courses
}

func getPathDetails(t *testing.T, app *fiber.App, pathID uint) (completedAll bool, courseCount int) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/path/"+strconv.FormatUint(uint64(pathID), 10), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed struct {
		Data struct {
			CompletedAll bool              `json:"completed_all"`
			Courses      []json.RawMessage `json:"courses"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed.Data.CompletedAll, len(parsed.Data.Courses)
}

func TestGetPathDetailsCompletedAll(t *testing.T) {
	db := setupTestDB(t)
	user, path, courses := seedPathWithCourses(t, db)
	app := newPathApp(user.ID)

	// Nothing completed yet
	completedAll, count := getPathDetails(t, app, path.ID)
	assert.False(t, completedAll)
	assert.Equal(t, 2, count)

	for _, crs := range courses {
		enrollment := courseModels.Enrollment{
			UserID: user.ID, CourseID: crs.ID,
			Status: courseModels.EnrollmentCompleted, Progress: 100,
		}
		require.NoError(t, db.Create(&enrollment).Error)
	}

	completedAll, _ = getPathDetails(t, app, path.ID)
	assert.True(t, completedAll)
}

func TestGetPathDetailsDeletedCourseBlocksCompletion(t *testing.T) {
	db := setupTestDB(t)
	user, path, courses := seedPathWithCourses(t, db)
	app := newPathApp(user.ID)

	// Complete only the first course, then soft-delete the second
	enrollment := courseModels.Enrollment{
		UserID: user.ID, CourseID: courses[0].ID,
		Status: courseModels.EnrollmentCompleted, Progress: 100,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	require.NoError(t, db.Model(&courses[1]).Update("is_deleted", true).Error)

	// The deleted course is dropped from the listing but still blocks completion
	completedAll, count := getPathDetails(t, app, path.ID)
	assert.False(t, completedAll)
	assert.Equal(t, 1, count)
}
