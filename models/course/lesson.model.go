package course

import (
	"time"

	"gorm.io/gorm"
)

// Lesson represents a video lesson within a course
type Lesson struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"` // lesson order in course
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}

// LessonProgress tracks how much of a lesson a user has watched.
// Completed is monotonic: once true it never reverts, and CompletedAt keeps
// the timestamp of the first completing update.
type LessonProgress struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"index;not null"`
	CourseID       uint       `json:"course_id" gorm:"index;not null"`
	LessonID       uint       `json:"lesson_id" gorm:"index;not null"`
	WatchedPercent int        `json:"watched_percent" gorm:"default:0"` // running max of reported values
	Completed      bool       `json:"completed" gorm:"default:false"`
	CompletedAt    *time.Time `json:"completed_at"`
	IsDeleted      bool       `gorm:"default:false"`
}
