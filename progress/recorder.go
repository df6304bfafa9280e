package progress

import (
	"errors"
	"fmt"
	"math"
	"time"

	"lms/models"
	"lms/models/course"

	"gorm.io/gorm"
)

// CompletionThreshold is the watched percentage at which a lesson counts as completed
const CompletionThreshold = 70

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

// Recorder applies watch-progress events and keeps enrollment progress in sync.
// The database handle is injected so tests can run against their own DB.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// WatchResult is the state after a recorded watch event
type WatchResult struct {
	LessonProgress course.LessonProgress `json:"lesson_progress"`
	Enrollment     course.Enrollment     `json:"enrollment"`
}

// RecordWatch records a client-reported watched percentage for a lesson and
// recomputes the course-level enrollment progress.
//
// Lesson completion is monotonic: the stored watched percentage is the running
// maximum of reported values, completed never reverts to false, and
// completed_at keeps the timestamp of the first completing update. Both merges
// happen in SQL so two racing requests converge to the merged maximum instead
// of last-write-wins.
func (r *Recorder) RecordWatch(userID, courseID, lessonID uint, watchedPercent int) (*WatchResult, error) {
	if watchedPercent < 0 {
		watchedPercent = 0
	} else if watchedPercent > 100 {
		watchedPercent = 100
	}

	// Validate references before any write
	var user models.User
	if err := r.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var crs course.Course
	if err := r.db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&crs).Error; err != nil {
		return nil, ErrCourseNotFound
	}

	var lesson course.Lesson
	if err := r.db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return nil, ErrLessonNotFound
	}

	now := time.Now()
	isCompletedNow := watchedPercent >= CompletionThreshold

	// Load or create the lesson progress record
	var lp course.LessonProgress
	err := r.db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).First(&lp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lp = course.LessonProgress{
			UserID:         userID,
			CourseID:       courseID,
			LessonID:       lessonID,
			WatchedPercent: watchedPercent,
			Completed:      isCompletedNow,
		}
		if isCompletedNow {
			lp.CompletedAt = &now
		}
		if err := r.db.Create(&lp).Error; err != nil {
			return nil, fmt.Errorf("failed to create lesson progress: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load lesson progress: %w", err)
	} else {
		updates := map[string]interface{}{
			"watched_percent": gorm.Expr("CASE WHEN watched_percent > ? THEN watched_percent ELSE ? END", watchedPercent, watchedPercent),
			"completed":       gorm.Expr("completed OR ?", isCompletedNow),
		}
		if isCompletedNow {
			// first completing update wins the timestamp
			updates["completed_at"] = gorm.Expr("COALESCE(completed_at, ?)", now)
		}
		if err := r.db.Model(&course.LessonProgress{}).Where("id = ?", lp.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update lesson progress: %w", err)
		}
		if err := r.db.First(&lp, lp.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to reload lesson progress: %w", err)
		}
	}

	enrollment, err := r.syncEnrollment(userID, courseID, now)
	if err != nil {
		return nil, err
	}

	return &WatchResult{LessonProgress: lp, Enrollment: *enrollment}, nil
}

// CourseProgress returns the completion percentage over published lessons.
// A course with no published lessons reports zero.
func (r *Recorder) CourseProgress(userID, courseID uint) (percent int, completed, total int64, err error) {
	if err = r.db.Model(&course.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&total).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count lessons: %w", err)
	}

	if err = r.db.Model(&course.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ? AND is_deleted = ?", userID, courseID, true, false).
		Count(&completed).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	if total > 0 {
		percent = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return percent, completed, total, nil
}

// syncEnrollment upserts the enrollment row with recomputed progress
func (r *Recorder) syncEnrollment(userID, courseID uint, now time.Time) (*course.Enrollment, error) {
	percent, completedCount, totalCount, err := r.CourseProgress(userID, courseID)
	if err != nil {
		return nil, err
	}

	var enrollment course.Enrollment
	err = r.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		enrollment = course.Enrollment{
			UserID:   userID,
			CourseID: courseID,
			Status:   course.EnrollmentNotStarted,
		}
		if err := r.db.Create(&enrollment).Error; err != nil {
			return nil, fmt.Errorf("failed to create enrollment: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	enrollment.Progress = percent
	enrollment.CompletedLessons = int(completedCount)
	enrollment.TotalLessons = int(totalCount)
	enrollment.LastAccessedAt = &now

	if percent >= 100 && totalCount > 0 {
		enrollment.Status = course.EnrollmentCompleted
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	} else if percent > 0 {
		enrollment.Status = course.EnrollmentInProgress
	}

	if err := r.db.Save(&enrollment).Error; err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	return &enrollment, nil
}
