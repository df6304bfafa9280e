package certificate

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lms/tier"

	"github.com/fogleman/gg"
	"github.com/jung-kurt/gofpdf"
)

// Output resolution of the composed certificate bitmap
const (
	renderWidth  = 1600
	renderHeight = 1131
)

// RenderInput holds the dynamic fields printed on a certificate
type RenderInput struct {
	StudentName  string
	CourseName   string
	Instructor   string
	CredentialID string
	Tier         string
	IssuedAt     time.Time
}

// Renderer composes certificate bitmaps from tier-keyed background templates
// and embeds them into single-page PDFs. It has no side effects beyond
// reading template files.
type Renderer struct {
	TemplateDir string
}

func NewRenderer(templateDir string) *Renderer {
	return &Renderer{TemplateDir: templateDir}
}

// backgroundPath resolves the background template for a tier. New-style
// filenames (background_basic.png) are tried first, then the legacy
// template codes (background_l3.png) kept from the old asset set.
func (r *Renderer) backgroundPath(t string) (string, error) {
	normalized := tier.Normalize(t)

	candidates := []string{"background_" + strings.ToLower(normalized) + ".png"}
	for legacy, label := range map[string]string{"l3": tier.Basic, "l2": tier.Premium, "l1": tier.Elite} {
		if label == normalized {
			candidates = append(candidates, "background_"+legacy+".png")
		}
	}

	for _, name := range candidates {
		path := filepath.Join(r.TemplateDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no background template for tier %s in %s", normalized, r.TemplateDir)
}

// Render composes the certificate image and returns the PNG bytes along with
// a single-page A4 landscape PDF embedding the same bitmap. A missing
// template or font file fails the whole render with no partial output.
func (r *Renderer) Render(in RenderInput) (pngBytes, pdfBytes []byte, err error) {
	bgPath, err := r.backgroundPath(in.Tier)
	if err != nil {
		return nil, nil, err
	}

	background, err := gg.LoadPNG(bgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load background template: %w", err)
	}

	fontPath := filepath.Join(r.TemplateDir, "certificate.ttf")

	dc := gg.NewContext(renderWidth, renderHeight)
	dc.DrawImage(background, 0, 0)
	dc.SetRGB(0.13, 0.13, 0.13)

	// Student name, centered
	if err := dc.LoadFontFace(fontPath, 72); err != nil {
		return nil, nil, fmt.Errorf("failed to load certificate font: %w", err)
	}
	dc.DrawStringAnchored(in.StudentName, renderWidth/2, 470, 0.5, 0.5)

	// Course title
	if err := dc.LoadFontFace(fontPath, 44); err != nil {
		return nil, nil, fmt.Errorf("failed to load certificate font: %w", err)
	}
	dc.DrawStringAnchored(in.CourseName, renderWidth/2, 610, 0.5, 0.5)

	// Instructor and issue date
	if err := dc.LoadFontFace(fontPath, 28); err != nil {
		return nil, nil, fmt.Errorf("failed to load certificate font: %w", err)
	}
	dc.DrawStringAnchored("Instructor: "+in.Instructor, renderWidth/2, 720, 0.5, 0.5)
	dc.DrawStringAnchored(in.IssuedAt.Format("January 2, 2006"), renderWidth/2, 780, 0.5, 0.5)

	// Credential id, small print at the bottom for verification
	if err := dc.LoadFontFace(fontPath, 20); err != nil {
		return nil, nil, fmt.Errorf("failed to load certificate font: %w", err)
	}
	dc.DrawStringAnchored("Credential ID: "+in.CredentialID, renderWidth/2, renderHeight-60, 0.5, 0.5)

	var imgBuf bytes.Buffer
	if err := png.Encode(&imgBuf, dc.Image()); err != nil {
		return nil, nil, fmt.Errorf("failed to encode certificate image: %w", err)
	}

	pdfBuf, err := embedPDF(imgBuf.Bytes())
	if err != nil {
		return nil, nil, err
	}

	return imgBuf.Bytes(), pdfBuf, nil
}

// embedPDF places the rendered bitmap on a single A4 landscape page
func embedPDF(image []byte) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opts, bytes.NewReader(image))
	pdf.ImageOptions("certificate", 0, 0, 297, 210, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to produce certificate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
