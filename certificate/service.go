package certificate

import (
	"context"
	"errors"
	"fmt"

	"lms/models/course"
	"lms/storage"

	"gorm.io/gorm"
)

var ErrCertificateNotFound = errors.New("certificate not found")

// Rasterizer produces the certificate assets
type Rasterizer interface {
	Render(in RenderInput) (pngBytes, pdfBytes []byte, err error)
}

// Assets are the stored URLs of a generated certificate
type Assets struct {
	ImageURL string `json:"image_url"`
	PdfURL   string `json:"pdf_url"`
}

// Service runs the certificate asset pipeline: a pending record (no asset
// URLs) is rendered, uploaded and backfilled with its URLs. Once both URLs
// are set the certificate is ready and Generate short-circuits without
// rendering or uploading again.
type Service struct {
	db       *gorm.DB
	renderer Rasterizer
	store    storage.Store
}

func NewService(db *gorm.DB, renderer Rasterizer, store storage.Store) *Service {
	return &Service{db: db, renderer: renderer, store: store}
}

// Generate renders and uploads the assets for a certificate record.
// Idempotent: a certificate that already has both URLs is returned as is.
// An upload failure leaves the record pending, safe to retry later.
func (s *Service) Generate(ctx context.Context, certID uint) (*Assets, error) {
	var cert course.Certificate
	if err := s.db.Where("id = ? AND is_deleted = ?", certID, false).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}

	// Already rendered, nothing to do
	if cert.ImageURL != "" && cert.PdfURL != "" {
		return &Assets{ImageURL: cert.ImageURL, PdfURL: cert.PdfURL}, nil
	}

	pngBytes, pdfBytes, err := s.renderer.Render(RenderInput{
		StudentName:  cert.StudentName,
		CourseName:   cert.CourseName,
		Instructor:   cert.Instructor,
		CredentialID: cert.CredentialID,
		Tier:         cert.Tier,
		IssuedAt:     cert.IssuedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate %s: %w", cert.CredentialID, err)
	}

	image, err := s.store.Upload(ctx, pngBytes, "certificates", cert.CredentialID+".png")
	if err != nil {
		return nil, fmt.Errorf("failed to upload certificate image: %w", err)
	}

	pdf, err := s.store.Upload(ctx, pdfBytes, "certificates", cert.CredentialID+".pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to upload certificate pdf: %w", err)
	}

	// Backfill the asset URLs; everything else on the record stays untouched
	if err := s.db.Model(&course.Certificate{}).Where("id = ?", cert.ID).
		Updates(map[string]interface{}{"image_url": image.URL, "pdf_url": pdf.URL}).Error; err != nil {
		return nil, fmt.Errorf("failed to save certificate asset urls: %w", err)
	}

	return &Assets{ImageURL: image.URL, PdfURL: pdf.URL}, nil
}
