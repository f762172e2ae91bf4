package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/RON-000000/photocomp/internal/cdn"
	"github.com/RON-000000/photocomp/internal/model"
	"github.com/RON-000000/photocomp/pkg/imaging"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadService validates, compresses, and pushes images to the CDN.
type UploadService struct {
	images       *cdn.Client
	maxUploadMB  int
	maxImageMB   int
	maxImageEdge int
}

func NewUploadService(images *cdn.Client, maxUploadMB, maxImageMB, maxImageEdge int) *UploadService {
	return &UploadService{
		images:       images,
		maxUploadMB:  maxUploadMB,
		maxImageMB:   maxImageMB,
		maxImageEdge: maxImageEdge,
	}
}

// UploadResult is the stored image's CDN location.
type UploadResult struct {
	URL string `json:"url"`
}

// Upload reads the multipart file, recompresses it to the size and
// dimension budget, and stores it under the given CDN subfolder.
func (s *UploadService) Upload(ctx context.Context, fh *multipart.FileHeader, subfolder string) (*UploadResult, error) {
	if fh.Size > int64(s.maxUploadMB)<<20 {
		return nil, model.NewValidationError(fmt.Sprintf("image: must be at most %dMB", s.maxUploadMB))
	}
	if ct := fh.Header.Get("Content-Type"); !allowedImageTypes[ct] {
		return nil, model.NewValidationError("image: must be a JPEG, PNG, or WebP")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(s.maxUploadMB)<<20+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > s.maxUploadMB<<20 {
		return nil, model.NewValidationError(fmt.Sprintf("image: must be at most %dMB", s.maxUploadMB))
	}

	compressed, err := imaging.Compress(data, s.maxImageEdge, int64(s.maxImageMB)<<20)
	if err != nil {
		return nil, model.NewValidationError("image: could not be decoded")
	}

	url, err := s.images.Upload(ctx, compressed, subfolder)
	if err != nil {
		return nil, fmt.Errorf("cdn upload: %w", err)
	}
	return &UploadResult{URL: url}, nil
}

// Delete removes an image from the CDN. A missing image counts as deleted.
func (s *UploadService) Delete(ctx context.Context, imageURL string) error {
	return s.images.Delete(ctx, imageURL)
}
