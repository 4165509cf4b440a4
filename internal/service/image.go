package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/metrics"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/repository"
	"github.com/chukanavi/chukanavi/internal/storage"
)

// Image service errors.
var (
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidCategory = errors.New("invalid image category")
	ErrFileRequired    = errors.New("image file is required")
	ErrFileTooLarge    = errors.New("image file too large")
)

// ImageStore is the persistence surface ImageService depends on.
type ImageStore interface {
	CreateImage(ctx context.Context, img *model.Image) error
	GetImageByID(ctx context.Context, id string) (*model.Image, error)
	ListImagesByRestaurant(ctx context.Context, restaurantID string) ([]*model.Image, error)
	DeleteImage(ctx context.Context, id string) error
}

// RestaurantGetter resolves a restaurant for existence and ownership
// checks.
type RestaurantGetter interface {
	GetRestaurantByID(ctx context.Context, id string) (*model.Restaurant, error)
}

// BlobStore uploads image blobs. Satisfied by *storage.Client.
type BlobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// ImageService handles image upload and deletion.
type ImageService struct {
	images        ImageStore
	restaurants   RestaurantGetter
	blobs         BlobStore
	cache         ImagesCache
	guard         *auth.Guard
	cleanup       CleanupPublisher
	maxUploadSize int64
	metrics       metrics.Recorder
}

// NewImageService creates a new ImageService. cleanup may be nil when no
// blob cleanup pipeline is running.
func NewImageService(images ImageStore, restaurants RestaurantGetter, blobs BlobStore, imgCache ImagesCache, guard *auth.Guard, cleanup CleanupPublisher, maxUploadSize int64, recorder metrics.Recorder) *ImageService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ImageService{
		images:        images,
		restaurants:   restaurants,
		blobs:         blobs,
		cache:         imgCache,
		guard:         guard,
		cleanup:       cleanup,
		maxUploadSize: maxUploadSize,
		metrics:       recorder,
	}
}

// List returns a restaurant's images, newest first. The restaurant must
// exist. IDs that recently resolved to no restaurant are answered from
// the negative cache without hitting the database.
func (s *ImageService) List(ctx context.Context, restaurantID string) ([]*model.Image, error) {
	if neg, err := s.cache.IsNegativelyCached(ctx, restaurantID); err == nil && neg {
		return nil, ErrRestaurantNotFound
	}

	if _, err := s.restaurants.GetRestaurantByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			_ = s.cache.SetNegativeCache(ctx, restaurantID)
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return s.images.ListImagesByRestaurant(ctx, restaurantID)
}

// UploadImageInput defines input for uploading an image.
type UploadImageInput struct {
	RestaurantID string
	Category     model.ImageCategory
	File         io.Reader
	FileName     string
	FileSize     int64
	MimeType     string
}

// Upload stores an image blob and records its row. The caller must own the
// restaurant. When the bucket is not provisioned the row is recorded with a
// placeholder URL instead of failing.
func (s *ImageService) Upload(ctx context.Context, input UploadImageInput) (*model.Image, error) {
	rest, err := s.restaurants.GetRestaurantByID(ctx, input.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if err := s.guard.Require(ctx, rest.UserID); err != nil {
		return nil, err
	}

	if !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if input.File == nil || input.FileName == "" {
		return nil, ErrFileRequired
	}
	if s.maxUploadSize > 0 && input.FileSize > s.maxUploadSize {
		return nil, ErrFileTooLarge
	}

	key := blobKey(input.RestaurantID, input.Category, input.FileName)

	var imageURL string
	uploadedURL, err := s.blobs.Upload(ctx, key, input.File, input.FileSize, input.MimeType)
	switch {
	case err == nil:
		imageURL = uploadedURL
		s.metrics.IncImageUploaded("success")
	case errors.Is(err, storage.ErrBucketNotFound):
		// Degraded mode: the bucket is not provisioned yet. Record the
		// row anyway so the listing stays consistent.
		imageURL = storage.PlaceholderURL(key)
		s.metrics.IncImageUploaded("placeholder")
	default:
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	img := &model.Image{
		ID:           ulid.Make().String(),
		RestaurantID: input.RestaurantID,
		Category:     input.Category,
		ImageURL:     imageURL,
		FileName:     input.FileName,
		FileSize:     input.FileSize,
		MimeType:     input.MimeType,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.images.CreateImage(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	// Stale cache entries age out on their own.
	_ = s.cache.DeleteImages(ctx, input.RestaurantID)

	return img, nil
}

// Delete removes an image row and enqueues its blob for best-effort
// removal. Ownership follows the parent restaurant.
func (s *ImageService) Delete(ctx context.Context, imageID string) error {
	img, err := s.images.GetImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	rest, err := s.restaurants.GetRestaurantByID(ctx, img.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			// Orphaned row; only the owner check is impossible, and
			// nothing remains to protect.
			return ErrImageNotFound
		}
		return err
	}

	if err := s.guard.Require(ctx, rest.UserID); err != nil {
		return err
	}

	if err := s.images.DeleteImage(ctx, imageID); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	s.metrics.IncImageDeleted()

	if s.cleanup != nil {
		_ = s.cleanup.PublishRemoval(ctx, img.ImageURL)
	}

	_ = s.cache.DeleteImages(ctx, img.RestaurantID)

	return nil
}

// blobKey builds the object key {restaurantID}/{category}/image_{ts}.{ext}.
// The extension comes from the uploaded file name, defaulting to jpg.
func blobKey(restaurantID string, category model.ImageCategory, fileName string) string {
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%s/image_%d.%s", restaurantID, category, time.Now().UnixMilli(), strings.ToLower(ext))
}
