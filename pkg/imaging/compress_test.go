package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxEdge int
		wantW   int
		wantH   int
	}{
		{"already within bounds", 800, 600, 2400, 800, 600},
		{"exactly at edge", 2400, 2400, 2400, 2400, 2400},
		{"landscape downscale", 4800, 3200, 2400, 2400, 1600},
		{"portrait downscale", 3000, 6000, 2400, 1200, 2400},
		{"square downscale", 5000, 5000, 2400, 2400, 2400},
		{"only one edge over", 3600, 1200, 2400, 2400, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := Fit(tt.w, tt.h, tt.maxEdge)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("Fit(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.maxEdge, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestCompress_ResizesOversizedImage(t *testing.T) {
	data := encodePNG(t, testImage(300, 200))

	out, err := Compress(data, 100, 5*1024*1024)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode compressed output: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 66 {
		t.Errorf("compressed dimensions = %dx%d, want 100x66", cfg.Width, cfg.Height)
	}
}

func TestCompress_KeepsSmallImageDimensions(t *testing.T) {
	data := encodePNG(t, testImage(80, 60))

	out, err := Compress(data, 2400, 5*1024*1024)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode compressed output: %v", err)
	}
	if cfg.Width != 80 || cfg.Height != 60 {
		t.Errorf("compressed dimensions = %dx%d, want 80x60 (no enlargement)", cfg.Width, cfg.Height)
	}
}

func TestCompress_OutputIsJPEG(t *testing.T) {
	data := encodePNG(t, testImage(50, 50))

	out, err := Compress(data, 2400, 5*1024*1024)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not a decodable JPEG: %v", err)
	}
}

func TestCompress_RespectsByteBudget(t *testing.T) {
	data := encodePNG(t, testImage(400, 400))

	// Generous budget: first quality attempt should already fit.
	out, err := Compress(data, 2400, 10*1024*1024)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if int64(len(out)) > 10*1024*1024 {
		t.Errorf("output %d bytes exceeds generous budget", len(out))
	}

	// Tight budget forces quality stepping; output should shrink.
	tight, err := Compress(data, 2400, int64(len(out))-1)
	if err != nil {
		t.Fatalf("Compress tight: %v", err)
	}
	if len(tight) >= len(out) {
		t.Errorf("tight-budget output %d bytes, want smaller than %d", len(tight), len(out))
	}
}

func TestCompress_RejectsGarbage(t *testing.T) {
	if _, err := Compress([]byte("not an image"), 2400, 5*1024*1024); err == nil {
		t.Error("expected decode error for non-image input")
	}
}
