// File: internal/filestorage/service.go
package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service stores listing images on local disk and serves them from a
// public base URL.
type Service interface {
	// SaveListingImages persists the uploaded files for a listing and
	// returns their public URLs in upload order.
	SaveListingImages(ctx context.Context, listingID uuid.UUID, files []*multipart.FileHeader) ([]string, error)
	// DeleteListingImages removes previously stored images. Unknown URLs
	// are skipped.
	DeleteListingImages(ctx context.Context, urls []string) error
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type localService struct {
	basePath      string
	publicBaseURL string
	maxImages     int
	logger        *zap.Logger
}

// NewLocalService creates a disk-backed image store rooted at the
// configured storage path.
func NewLocalService(cfg *config.Config, logger *zap.Logger) (Service, error) {
	if err := os.MkdirAll(cfg.ImageStoragePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image storage directory %s: %w", cfg.ImageStoragePath, err)
	}
	return &localService{
		basePath:      cfg.ImageStoragePath,
		publicBaseURL: strings.TrimRight(cfg.ImagePublicBaseURL, "/"),
		maxImages:     cfg.MaxListingImages,
		logger:        logger.Named("FileStorageService"),
	}, nil
}

func (s *localService) SaveListingImages(ctx context.Context, listingID uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if len(files) > s.maxImages {
		return nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("A listing can have at most %d images.", s.maxImages))
	}

	dir := filepath.Join(s.basePath, "listings", listingID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create listing image directory: %w", err)
	}

	urls := make([]string, 0, len(files))
	saved := make([]string, 0, len(files))
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedImageExtensions[ext] {
			s.cleanup(saved)
			return nil, common.ErrBadRequest.WithDetails(
				fmt.Sprintf("Unsupported image type %q. Allowed: jpg, jpeg, png, webp.", ext))
		}

		name := uuid.New().String() + ext
		dst := filepath.Join(dir, name)
		if err := s.copyFile(fh, dst); err != nil {
			s.cleanup(saved)
			return nil, fmt.Errorf("failed to store image %s: %w", fh.Filename, err)
		}
		saved = append(saved, dst)
		urls = append(urls, fmt.Sprintf("%s/listings/%s/%s", s.publicBaseURL, listingID, name))
	}

	s.logger.Info("Stored listing images",
		zap.String("listingID", listingID.String()), zap.Int("count", len(urls)))
	return urls, nil
}

func (s *localService) DeleteListingImages(ctx context.Context, urls []string) error {
	for _, u := range urls {
		rel, ok := strings.CutPrefix(u, s.publicBaseURL+"/")
		if !ok {
			s.logger.Warn("Skipping image outside the public base URL", zap.String("url", u))
			continue
		}
		path := filepath.Join(s.basePath, filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete image %s: %w", path, err)
		}
	}
	return nil
}

func (s *localService) copyFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func (s *localService) cleanup(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to clean up partially stored image", zap.String("path", p), zap.Error(err))
		}
	}
}
