package certificate

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms/models/course"
	"lms/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeRasterizer struct {
	renders int
}

func (f *fakeRasterizer) Render(in RenderInput) ([]byte, []byte, error) {
	f.renders++
	return []byte("png:" + in.CredentialID), []byte("pdf:" + in.CredentialID), nil
}

type fakeStore struct {
	uploads int
	fail    bool
}

func (f *fakeStore) Upload(ctx context.Context, data []byte, folder, filename string) (storage.Asset, error) {
	if f.fail {
		return storage.Asset{}, errors.New("upstream unavailable")
	}
	f.uploads++
	return storage.Asset{URL: "https://cdn.example.com/" + folder + "/" + filename, ID: filename}, nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&course.Certificate{}))
	return db
}

func seedCertificate(t *testing.T, db *gorm.DB) course.Certificate {
	t.Helper()

	courseID := uint(1)
	cert := course.Certificate{
		UserID:       1,
		CourseID:     &courseID,
		StudentName:  "Jane Learner",
		CourseName:   "Intro to Trading",
		Instructor:   "Alex",
		Tier:         "PREMIUM",
		CredentialID: "CERT-2026-ABCD1234",
		IssuedAt:     time.Now(),
	}
	require.NoError(t, db.Create(&cert).Error)
	return cert
}

func TestGenerateRendersAndBackfillsURLs(t *testing.T) {
	db := setupDB(t)
	cert := seedCertificate(t, db)
	renderer := &fakeRasterizer{}
	store := &fakeStore{}
	service := NewService(db, renderer, store)

	assets, err := service.Generate(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/certificates/CERT-2026-ABCD1234.png", assets.ImageURL)
	assert.Equal(t, "https://cdn.example.com/certificates/CERT-2026-ABCD1234.pdf", assets.PdfURL)
	assert.Equal(t, 1, renderer.renders)
	assert.Equal(t, 2, store.uploads)

	var stored course.Certificate
	require.NoError(t, db.First(&stored, cert.ID).Error)
	assert.Equal(t, assets.ImageURL, stored.ImageURL)
	assert.Equal(t, assets.PdfURL, stored.PdfURL)
}

func TestGenerateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	cert := seedCertificate(t, db)
	renderer := &fakeRasterizer{}
	store := &fakeStore{}
	service := NewService(db, renderer, store)

	first, err := service.Generate(context.Background(), cert.ID)
	require.NoError(t, err)

	// A second run short-circuits: no render, no upload, same URLs
	second, err := service.Generate(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, renderer.renders)
	assert.Equal(t, 2, store.uploads)
}

func TestGenerateNotFound(t *testing.T) {
	db := setupDB(t)
	service := NewService(db, &fakeRasterizer{}, &fakeStore{})

	_, err := service.Generate(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestGenerateUploadFailureLeavesRecordPending(t *testing.T) {
	db := setupDB(t)
	cert := seedCertificate(t, db)
	renderer := &fakeRasterizer{}
	store := &fakeStore{fail: true}
	service := NewService(db, renderer, store)

	_, err := service.Generate(context.Background(), cert.ID)
	require.Error(t, err)

	var stored course.Certificate
	require.NoError(t, db.First(&stored, cert.ID).Error)
	assert.Empty(t, stored.ImageURL)
	assert.Empty(t, stored.PdfURL)

	// The pending record is safe to retry once the store recovers
	store.fail = false
	assets, err := service.Generate(context.Background(), cert.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, assets.ImageURL)
	assert.NotEmpty(t, assets.PdfURL)
}
