package export

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log"
	"strings"
	"time"

	"gograph/domain/core"
	"gograph/internal/render"

	"github.com/go-pdf/fpdf"
	"golang.org/x/sync/semaphore"
)

// Format is an export target.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PDF  Format = "pdf"
)

// JPEGQuality is the encoder quality for JPEG exports.
const JPEGQuality = 92

// ParseFormat accepts png, jpeg/jpg and pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("%w: export format %q", core.ErrUnsupportedFormat, s)
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string { return string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case PDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// Capturer is anything holding a drawable surface.
type Capturer interface {
	Capture() (*render.Bitmap, error)
}

// Artifact is a finished, downloadable export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Service encodes captured surfaces. It never touches the data pipeline.
type Service struct {
	sem *semaphore.Weighted
}

// NewService creates an export service allowing maxConcurrent encodes at once.
func NewService(maxConcurrent int64) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Service{sem: semaphore.NewWeighted(maxConcurrent)}
}

// Export captures the surface and encodes it as format.
func (s *Service) Export(ctx context.Context, surface Capturer, format Format) (*Artifact, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, &core.ExportFailureError{Format: string(format), Cause: err}
	}
	defer s.sem.Release(1)

	start := time.Now()
	bmp, err := surface.Capture()
	if err != nil {
		return nil, &core.ExportFailureError{Format: string(format), Cause: err}
	}

	art, err := Encode(bmp, format)
	if err != nil {
		return nil, err
	}
	log.Printf("[Export] %s %dx%d encoded in %.2fms (%d bytes)",
		format, art.Width, art.Height, float64(time.Since(start).Nanoseconds())/1e6, len(art.Data))
	return art, nil
}

// Encode converts a captured bitmap into the requested format.
func Encode(bmp *render.Bitmap, format Format) (*Artifact, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case PNG:
		data = bmp.PNG
	case JPEG:
		data, err = encodeJPEG(bmp)
	case PDF:
		data, err = encodePDF(bmp)
	default:
		err = fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &core.ExportFailureError{Format: string(format), Cause: err}
	}
	return &Artifact{
		Filename:    "chart." + format.Extension(),
		ContentType: format.ContentType(),
		Data:        data,
		Width:       bmp.Width,
		Height:      bmp.Height,
	}, nil
}

func encodeJPEG(bmp *render.Bitmap) ([]byte, error) {
	img, err := bmp.Image()
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

// encodePDF places the bitmap on a single page whose size in points equals
// the bitmap size, so the page has the bitmap's aspect ratio.
func encodePDF(bmp *render.Bitmap) ([]byte, error) {
	w, h := float64(bmp.Width), float64(bmp.Height)
	// portrait keeps Wd/Ht as given; landscape would swap them
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(bmp.PNG))
	pdf.ImageOptions("chart", 0, 0, w, h, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf layout: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
