package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued credential for a completed course or
// learning path. A record without asset URLs is pending; once ImageURL and
// PdfURL are set the certificate is immutable.
type Certificate struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	CourseID     *uint     `json:"course_id" gorm:"index"` // nil for learning path certificates
	PathID       *uint     `json:"path_id" gorm:"index"`
	StudentName  string    `json:"student_name"`
	CourseName   string    `json:"course_name"`
	Instructor   string    `json:"instructor"`
	Tier         string    `json:"tier" gorm:"default:'BASIC'"`
	CredentialID string    `json:"credential_id" gorm:"unique;not null"` // printed on the certificate, publicly verifiable
	ImageURL     string    `json:"image_url"`
	PdfURL       string    `json:"pdf_url"`
	IssuedAt     time.Time `json:"issued_at"`
	IsDeleted    bool      `gorm:"default:false"`
}
