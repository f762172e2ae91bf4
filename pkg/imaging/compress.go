// Package imaging prepares uploaded photos for CDN storage: bound the
// dimensions, then step JPEG quality down until the file fits the size cap.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	startQuality = 90
	minQuality   = 10
	qualityStep  = 10
)

// Fit scales (width, height) to fit inside a maxEdge square, preserving
// aspect ratio and never enlarging.
func Fit(width, height, maxEdge int) (int, int) {
	if width <= maxEdge && height <= maxEdge {
		return width, height
	}
	if width >= height {
		return maxEdge, int(float64(height) * float64(maxEdge) / float64(width))
	}
	return int(float64(width) * float64(maxEdge) / float64(height)), maxEdge
}

// Compress decodes an uploaded image (JPEG, PNG or WebP), resizes it to fit
// maxEdge x maxEdge, and JPEG-encodes it starting at quality 90, stepping
// down by 10 until the result is at most maxBytes or quality bottoms out at
// 10. The last attempt is returned even when it still exceeds maxBytes.
func Compress(data []byte, maxEdge int, maxBytes int64) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := Fit(bounds.Dx(), bounds.Dy(), maxEdge)
	if w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	for quality := startQuality; quality >= minQuality; quality -= qualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		if int64(buf.Len()) <= maxBytes {
			break
		}
	}

	return buf.Bytes(), nil
}
