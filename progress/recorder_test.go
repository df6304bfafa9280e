package progress

import (
	"fmt"
	"testing"

	"lms/models"
	"lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&course.Course{},
		&course.Lesson{},
		&course.LessonProgress{},
		&course.Enrollment{},
	))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, lessonCount int) (models.User, course.Course, []course.Lesson) {
	t.Helper()

	user := models.User{Name: "Jane Learner", Email: "jane@example.com", Password: "x", Plan: "free"}
	require.NoError(t, db.Create(&user).Error)

	crs := course.Course{Title: "Intro to Trading", Instructor: "Alex", IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)

	lessons := make([]course.Lesson, lessonCount)
	for i := range lessons {
		lessons[i] = course.Lesson{
			CourseID:    crs.ID,
			Title:       fmt.Sprintf("Lesson %d", i+1),
			VideoURL:    fmt.Sprintf("https://cdn.example.com/l%d.mp4", i+1),
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lessons[i]).Error)
	}
	return user, crs, lessons
}

func TestRecordWatchCompletionIsMonotonic(t *testing.T) {
	db := setupDB(t)
	user, crs, lessons := seedCourse(t, db, 1)
	recorder := NewRecorder(db)

	// Scenario: 10, 50, 80, 40. Completion sticks at the 80 update.
	res, err := recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, 10)
	require.NoError(t, err)
	assert.False(t, res.LessonProgress.Completed)
	assert.Nil(t, res.LessonProgress.CompletedAt)
	assert.Equal(t, 10, res.LessonProgress.WatchedPercent)

	res, err = recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, 50)
	require.NoError(t, err)
	assert.False(t, res.LessonProgress.Completed)

	res, err = recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, 80)
	require.NoError(t, err)
	assert.True(t, res.LessonProgress.Completed)
	require.NotNil(t, res.LessonProgress.CompletedAt)
	completedAt := *res.LessonProgress.CompletedAt

	// A lower report afterwards never un-completes and keeps the first timestamp
	res, err = recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, 40)
	require.NoError(t, err)
	assert.True(t, res.LessonProgress.Completed)
	assert.Equal(t, 80, res.LessonProgress.WatchedPercent, "watched percent is a running max")
	require.NotNil(t, res.LessonProgress.CompletedAt)
	assert.WithinDuration(t, completedAt, *res.LessonProgress.CompletedAt, 0)
}

func TestRecordWatchCourseProgress(t *testing.T) {
	db := setupDB(t)
	user, crs, lessons := seedCourse(t, db, 5)
	recorder := NewRecorder(db)

	// Complete 3 of 5 lessons
	for i := 0; i < 3; i++ {
		_, err := recorder.RecordWatch(user.ID, crs.ID, lessons[i].ID, 100)
		require.NoError(t, err)
	}

	var enrollment course.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, 60, enrollment.Progress)
	assert.Equal(t, course.EnrollmentInProgress, enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)
	assert.NotNil(t, enrollment.LastAccessedAt)

	// Complete the remaining 2
	for i := 3; i < 5; i++ {
		_, err := recorder.RecordWatch(user.ID, crs.ID, lessons[i].ID, 75)
		require.NoError(t, err)
	}

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, course.EnrollmentCompleted, enrollment.Status)
	require.NotNil(t, enrollment.CompletedAt)
	completedAt := *enrollment.CompletedAt

	// Further watch events do not move the completion timestamp
	_, err := recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, 90)
	require.NoError(t, err)
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, crs.ID).First(&enrollment).Error)
	assert.WithinDuration(t, completedAt, *enrollment.CompletedAt, 0)
}

func TestRecordWatchBelowThresholdDoesNotComplete(t *testing.T) {
	db := setupDB(t)
	user, crs, lessons := seedCourse(t, db, 2)
	recorder := NewRecorder(db)

	res, err := recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, CompletionThreshold-1)
	require.NoError(t, err)
	assert.False(t, res.LessonProgress.Completed)
	assert.Equal(t, 0, res.Enrollment.Progress)
	assert.Equal(t, course.EnrollmentNotStarted, res.Enrollment.Status)

	res, err = recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, CompletionThreshold)
	require.NoError(t, err)
	assert.True(t, res.LessonProgress.Completed)
	assert.Equal(t, 50, res.Enrollment.Progress)
	assert.Equal(t, course.EnrollmentInProgress, res.Enrollment.Status)
}

func TestRecordWatchRounding(t *testing.T) {
	db := setupDB(t)
	user, crs, lessons := seedCourse(t, db, 3)
	recorder := NewRecorder(db)

	res, err := recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 33, res.Enrollment.Progress)

	res, err = recorder.RecordWatch(user.ID, crs.ID, lessons[1].ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 67, res.Enrollment.Progress)
}

func TestCourseProgressNoPublishedLessons(t *testing.T) {
	db := setupDB(t)
	user, crs, _ := seedCourse(t, db, 0)
	recorder := NewRecorder(db)

	percent, completed, total, err := recorder.CourseProgress(user.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, percent)
	assert.Equal(t, int64(0), completed)
	assert.Equal(t, int64(0), total)
}

func TestCourseProgressIgnoresUnpublishedLessons(t *testing.T) {
	db := setupDB(t)
	user, crs, lessons := seedCourse(t, db, 2)
	recorder := NewRecorder(db)

	// An unpublished draft lesson must not count toward the denominator
	draft := course.Lesson{CourseID: crs.ID, Title: "Draft", IsPublished: false}
	require.NoError(t, db.Create(&draft).Error)

	for _, lesson := range lessons {
		_, err := recorder.RecordWatch(user.ID, crs.ID, lesson.ID, 100)
		require.NoError(t, err)
	}

	percent, _, total, err := recorder.CourseProgress(user.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 100, percent)
}

func TestRecordWatchNotFound(t *testing.T) {
	db := setupDB(t)
	user, crs, lessons := seedCourse(t, db, 1)
	recorder := NewRecorder(db)

	_, err := recorder.RecordWatch(user.ID+999, crs.ID, lessons[0].ID, 50)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = recorder.RecordWatch(user.ID, crs.ID+999, lessons[0].ID, 50)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID+999, 50)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	// Failed lookups must leave no progress rows behind
	var count int64
	db.Model(&course.LessonProgress{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRecordWatchClampsPercent(t *testing.T) {
	db := setupDB(t)
	user, crs, lessons := seedCourse(t, db, 1)
	recorder := NewRecorder(db)

	res, err := recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, 150)
	require.NoError(t, err)
	assert.Equal(t, 100, res.LessonProgress.WatchedPercent)
	assert.True(t, res.LessonProgress.Completed)

	res, err = recorder.RecordWatch(user.ID, crs.ID, lessons[0].ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 100, res.LessonProgress.WatchedPercent)
}
