package course

import "gorm.io/gorm"

// LearningPath groups courses into an ordered track with its own certificate
type LearningPath struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Tier        string `json:"tier" gorm:"default:'BASIC'"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// PathCourse links a course into a learning path
type PathCourse struct {
	gorm.Model
	PathID     uint `json:"path_id" gorm:"index;not null"`
	CourseID   uint `json:"course_id" gorm:"index;not null"`
	OrderIndex int  `json:"order_index" gorm:"default:0"`
	IsDeleted  bool `gorm:"default:false"`
}
