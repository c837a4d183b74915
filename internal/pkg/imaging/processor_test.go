package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &buf
}

func TestProcessKeepsSmallImage(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	result, err := p.Process(encodePNG(t, 800, 600))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.Width != 800 || result.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", result.Width, result.Height)
	}
	if result.ContentType != "image/png" {
		t.Errorf("expected image/png, got %s", result.ContentType)
	}
	if result.Ext != ".png" {
		t.Errorf("expected .png, got %s", result.Ext)
	}
}

func TestProcessBoundsLargeImage(t *testing.T) {
	p := NewProcessor(Config{MaxWidth: 100, MaxHeight: 100, Quality: 85})

	result, err := p.Process(encodePNG(t, 400, 200))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.Width > 100 || result.Height > 100 {
		t.Errorf("image not bounded: %dx%d", result.Width, result.Height)
	}
	// Aspect ratio preserved: 400x200 fits as 100x50.
	if result.Width != 100 || result.Height != 50 {
		t.Errorf("expected 100x50, got %dx%d", result.Width, result.Height)
	}
}

func TestProcessJPEGStaysJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	p := NewProcessor(DefaultConfig())
	result, err := p.Process(&buf)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.ContentType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", result.ContentType)
	}
	if result.Ext != ".jpg" {
		t.Errorf("expected .jpg, got %s", result.Ext)
	}
}

func TestProcessGIFBecomesJPEG(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 40, 40), []color.Color{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	p := NewProcessor(DefaultConfig())
	result, err := p.Process(&buf)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.ContentType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", result.ContentType)
	}
	if result.Ext != ".jpg" {
		t.Errorf("expected .jpg, got %s", result.Ext)
	}
	if _, err := jpeg.Decode(bytes.NewReader(result.Data)); err != nil {
		t.Errorf("output is not decodable jpeg: %v", err)
	}
}

func TestWebPDecoderRegistered(t *testing.T) {
	// Minimal lossless WebP container: RIFF header plus a VP8L chunk whose
	// 5-byte header declares a 1x1 image. DecodeConfig only parses the
	// header, which is enough to prove the format is wired into
	// image.Decode.
	data := []byte("RIFF\x12\x00\x00\x00WEBPVP8L\x05\x00\x00\x00\x2f\x00\x00\x00\x00\x00")

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if format != "webp" {
		t.Fatalf("expected webp format, got %s", format)
	}
	if cfg.Width != 1 || cfg.Height != 1 {
		t.Errorf("expected 1x1, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	p := NewProcessor(DefaultConfig())
	if _, err := p.Process(bytes.NewReader([]byte("definitely not an image"))); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidateType(t *testing.T) {
	valid := []string{"photo.jpg", "photo.JPEG", "img.png", "anim.gif", "pic.webp"}
	for _, name := range valid {
		if !ValidateType(name) {
			t.Errorf("expected %s to be valid", name)
		}
	}

	invalid := []string{"doc.pdf", "archive.zip", "noext", "script.svg"}
	for _, name := range invalid {
		if ValidateType(name) {
			t.Errorf("expected %s to be invalid", name)
		}
	}
}
