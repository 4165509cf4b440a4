package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/cache"
	"github.com/chukanavi/chukanavi/internal/metrics"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/repository"
)

// Restaurant service errors.
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrNameRequired       = errors.New("name is required")
	ErrAddressRequired    = errors.New("address is required")
)

// RestaurantStore is the persistence surface RestaurantService depends on.
type RestaurantStore interface {
	CreateRestaurant(ctx context.Context, rest *model.Restaurant) error
	GetRestaurantByID(ctx context.Context, id string) (*model.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]*model.Restaurant, error)
	SearchRestaurants(ctx context.Context, filter model.SearchFilter) ([]*model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, rest *model.Restaurant) error
	DeleteRestaurant(ctx context.Context, id string) error
}

// ImageLister lists image rows for grouped display.
type ImageLister interface {
	ListImagesByRestaurant(ctx context.Context, restaurantID string) ([]*model.Image, error)
}

// ImagesCache caches grouped image URLs per restaurant, plus a short
// negative entry for IDs that resolved to no restaurant. Satisfied by
// *cache.Cache.
type ImagesCache interface {
	GetImages(ctx context.Context, restaurantID string) (model.GroupedImages, error)
	SetImages(ctx context.Context, restaurantID string, grouped model.GroupedImages) error
	DeleteImages(ctx context.Context, restaurantID string) error
	IsNegativelyCached(ctx context.Context, restaurantID string) (bool, error)
	SetNegativeCache(ctx context.Context, restaurantID string) error
}

// CleanupPublisher enqueues stored URLs whose backing blobs should be
// removed. Best-effort; publish failures never fail the mutation.
type CleanupPublisher interface {
	PublishRemoval(ctx context.Context, imageURL string) error
}

// RestaurantService handles restaurant business logic.
type RestaurantService struct {
	restaurants RestaurantStore
	images      ImageLister
	cache       ImagesCache
	guard       *auth.Guard
	cleanup     CleanupPublisher
	metrics     metrics.Recorder
}

// NewRestaurantService creates a new RestaurantService. cleanup may be nil
// when no blob cleanup pipeline is running.
func NewRestaurantService(restaurants RestaurantStore, images ImageLister, imgCache ImagesCache, guard *auth.Guard, cleanup CleanupPublisher, recorder metrics.Recorder) *RestaurantService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RestaurantService{
		restaurants: restaurants,
		images:      images,
		cache:       imgCache,
		guard:       guard,
		cleanup:     cleanup,
		metrics:     recorder,
	}
}

// List returns all restaurants, newest first, with grouped image URLs
// attached.
func (s *RestaurantService) List(ctx context.Context) ([]*model.Restaurant, error) {
	rests, err := s.restaurants.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	for _, rest := range rests {
		rest.Images = s.groupedImages(ctx, rest.ID)
	}
	return rests, nil
}

// Get returns a restaurant by ID with grouped image URLs attached.
func (s *RestaurantService) Get(ctx context.Context, id string) (*model.Restaurant, error) {
	rest, err := s.restaurants.GetRestaurantByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	rest.Images = s.groupedImages(ctx, rest.ID)
	return rest, nil
}

// CreateRestaurantInput defines input for creating a restaurant.
type CreateRestaurantInput struct {
	Name                string
	Address             string
	Phone               string
	BusinessHours       model.BusinessHours
	Holidays            string
	PriceRange          string
	SeatingCapacity     int
	Parking             bool
	ReservationRequired bool
	PaymentMethods      []string
}

// Create inserts a restaurant owned by the given user.
func (s *RestaurantService) Create(ctx context.Context, input CreateRestaurantInput, ownerID string) (*model.Restaurant, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Address == "" {
		return nil, ErrAddressRequired
	}

	now := time.Now().UTC()
	rest := &model.Restaurant{
		ID:                  uuid.NewString(),
		Name:                input.Name,
		Address:             input.Address,
		Phone:               input.Phone,
		BusinessHours:       input.BusinessHours,
		Holidays:            input.Holidays,
		PriceRange:          input.PriceRange,
		SeatingCapacity:     input.SeatingCapacity,
		Parking:             input.Parking,
		ReservationRequired: input.ReservationRequired,
		PaymentMethods:      input.PaymentMethods,
		Images:              model.EmptyGroupedImages(),
		UserID:              ownerID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.restaurants.CreateRestaurant(ctx, rest); err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	s.metrics.IncRestaurantCreated()

	return rest, nil
}

// UpdateRestaurantInput defines input for updating a restaurant.
// Absent (nil) fields are left unchanged. The owner and any image payload
// are never updatable through this path.
type UpdateRestaurantInput struct {
	ID                  string
	Name                *string
	Address             *string
	Phone               *string
	BusinessHours       *model.BusinessHours
	Holidays            *string
	PriceRange          *string
	SeatingCapacity     *int
	Parking             *bool
	ReservationRequired *bool
	PaymentMethods      *[]string
}

// Update applies a partial update after verifying the caller owns the
// restaurant.
func (s *RestaurantService) Update(ctx context.Context, input UpdateRestaurantInput) (*model.Restaurant, error) {
	rest, err := s.restaurants.GetRestaurantByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if err := s.guard.Require(ctx, rest.UserID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		rest.Name = *input.Name
	}
	if input.Address != nil {
		if *input.Address == "" {
			return nil, ErrAddressRequired
		}
		rest.Address = *input.Address
	}
	if input.Phone != nil {
		rest.Phone = *input.Phone
	}
	if input.BusinessHours != nil {
		rest.BusinessHours = *input.BusinessHours
	}
	if input.Holidays != nil {
		rest.Holidays = *input.Holidays
	}
	if input.PriceRange != nil {
		rest.PriceRange = *input.PriceRange
	}
	if input.SeatingCapacity != nil {
		rest.SeatingCapacity = *input.SeatingCapacity
	}
	if input.Parking != nil {
		rest.Parking = *input.Parking
	}
	if input.ReservationRequired != nil {
		rest.ReservationRequired = *input.ReservationRequired
	}
	if input.PaymentMethods != nil {
		rest.PaymentMethods = *input.PaymentMethods
	}
	rest.UpdatedAt = time.Now().UTC()

	if err := s.restaurants.UpdateRestaurant(ctx, rest); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	s.metrics.IncRestaurantUpdated()

	rest.Images = s.groupedImages(ctx, rest.ID)
	return rest, nil
}

// Delete removes a restaurant after verifying ownership. Image rows
// cascade in the database; backing blobs are enqueued for best-effort
// removal.
func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	rest, err := s.restaurants.GetRestaurantByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	if err := s.guard.Require(ctx, rest.UserID); err != nil {
		return err
	}

	// Snapshot image URLs before the rows cascade away.
	images, err := s.images.ListImagesByRestaurant(ctx, id)
	if err != nil {
		return err
	}

	if err := s.restaurants.DeleteRestaurant(ctx, id); err != nil {
		return err
	}

	s.metrics.IncRestaurantDeleted()

	if s.cleanup != nil {
		for _, img := range images {
			_ = s.cleanup.PublishRemoval(ctx, img.ImageURL)
		}
	}

	// Stale cache entries age out on their own.
	_ = s.cache.DeleteImages(ctx, id)

	return nil
}

// Search returns restaurants matching the filter, newest first, with
// grouped image URLs attached. All present filters are ANDed.
func (s *RestaurantService) Search(ctx context.Context, filter model.SearchFilter) ([]*model.Restaurant, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveSearchDuration(time.Since(start))
	}()

	rests, err := s.restaurants.SearchRestaurants(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, rest := range rests {
		rest.Images = s.groupedImages(ctx, rest.ID)
	}
	return rests, nil
}

// groupedImages loads a restaurant's grouped image URLs, cache first.
// Failures degrade to the empty grouping rather than failing the read.
func (s *RestaurantService) groupedImages(ctx context.Context, restaurantID string) model.GroupedImages {
	grouped, err := s.cache.GetImages(ctx, restaurantID)
	if err == nil {
		return grouped
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return model.EmptyGroupedImages()
	}

	images, err := s.images.ListImagesByRestaurant(ctx, restaurantID)
	if err != nil {
		return model.EmptyGroupedImages()
	}

	grouped = model.GroupImages(images)
	_ = s.cache.SetImages(ctx, restaurantID, grouped)
	return grouped
}
