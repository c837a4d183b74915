package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ProcessedImage is a normalized listing photo ready for upload
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Config for image processing
type Config struct {
	MaxWidth  int // Max width (default 1600)
	MaxHeight int // Max height (default 1600)
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  1600,
		MaxHeight: 1600,
		Quality:   85,
	}
}

// Processor normalizes listing photos before upload
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Process decodes an image, bounds it to the configured dimensions and re-encodes it
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	result := &ProcessedImage{
		ContentType: mimeFromFormat(format),
		Ext:         extFromFormat(format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}

	resized := img
	if result.Width > p.config.MaxWidth || result.Height > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
		result.Width = resized.Bounds().Dx()
		result.Height = resized.Bounds().Dy()
	}

	encoded, err := p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	result.Data = encoded

	return result, nil
}

// ValidateType checks if file is a valid image type
func ValidateType(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// MaxFileSize in bytes (10MB)
const MaxFileSize int64 = 10 * 1024 * 1024

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		// JPEG for everything else
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// Only png survives re-encoding as png; gif, webp and everything else come
// out of encode as JPEG, so content type and extension follow the encoder,
// not the source format.
func mimeFromFormat(format string) string {
	if format == "png" {
		return "image/png"
	}
	return "image/jpeg"
}

func extFromFormat(format string) string {
	if format == "png" {
		return ".png"
	}
	return ".jpg"
}
