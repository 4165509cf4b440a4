package handler

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/cache"
	"github.com/chukanavi/chukanavi/internal/middleware"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/repository"
	"github.com/chukanavi/chukanavi/internal/service"
)

// fakeUserStore is an in-memory user store for handler tests.
type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
	byID    map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrEmailExists
	}
	u := *user
	f.byEmail[u.Email] = &u
	f.byID[u.ID] = &u
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmailAndHash(ctx context.Context, email, passwordHash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok || u.PasswordHash != passwordHash {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// fakeRestaurantStore keeps restaurants newest first.
type fakeRestaurantStore struct {
	mu          sync.Mutex
	restaurants []*model.Restaurant
}

func (f *fakeRestaurantStore) CreateRestaurant(ctx context.Context, rest *model.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *rest
	f.restaurants = append([]*model.Restaurant{&copied}, f.restaurants...)
	return nil
}

func (f *fakeRestaurantStore) GetRestaurantByID(ctx context.Context, id string) (*model.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.restaurants {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, repository.ErrRestaurantNotFound
}

func (f *fakeRestaurantStore) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Restaurant, 0, len(f.restaurants))
	for _, r := range f.restaurants {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRestaurantStore) SearchRestaurants(ctx context.Context, filter model.SearchFilter) ([]*model.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(filter.Query)
	var out []*model.Restaurant
	for _, r := range f.restaurants {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(r.Address), q) {
			continue
		}
		if filter.PriceRange != "" && r.PriceRange != filter.PriceRange {
			continue
		}
		if filter.Parking != nil && r.Parking != *filter.Parking {
			continue
		}
		if filter.ReservationRequired != nil && r.ReservationRequired != *filter.ReservationRequired {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRestaurantStore) UpdateRestaurant(ctx context.Context, rest *model.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.restaurants {
		if r.ID == rest.ID {
			copied := *rest
			f.restaurants[i] = &copied
			return nil
		}
	}
	return repository.ErrRestaurantNotFound
}

func (f *fakeRestaurantStore) DeleteRestaurant(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.restaurants {
		if r.ID == id {
			f.restaurants = append(f.restaurants[:i], f.restaurants[i+1:]...)
			return nil
		}
	}
	return repository.ErrRestaurantNotFound
}

// fakeImageStore keeps images newest first.
type fakeImageStore struct {
	mu     sync.Mutex
	images []*model.Image
}

func (f *fakeImageStore) CreateImage(ctx context.Context, img *model.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *img
	f.images = append([]*model.Image{&copied}, f.images...)
	return nil
}

func (f *fakeImageStore) GetImageByID(ctx context.Context, id string) (*model.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range f.images {
		if img.ID == id {
			copied := *img
			return &copied, nil
		}
	}
	return nil, repository.ErrImageNotFound
}

func (f *fakeImageStore) ListImagesByRestaurant(ctx context.Context, restaurantID string) ([]*model.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Image
	for _, img := range f.images {
		if img.RestaurantID == restaurantID {
			copied := *img
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeImageStore) DeleteImage(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, img := range f.images {
		if img.ID == id {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return nil
		}
	}
	return repository.ErrImageNotFound
}

// missCache always misses so handler tests exercise the store path.
type missCache struct{}

func (missCache) GetImages(ctx context.Context, restaurantID string) (model.GroupedImages, error) {
	return nil, cache.ErrCacheMiss
}

func (missCache) SetImages(ctx context.Context, restaurantID string, grouped model.GroupedImages) error {
	return nil
}

func (missCache) DeleteImages(ctx context.Context, restaurantID string) error {
	return nil
}

func (missCache) IsNegativelyCached(ctx context.Context, restaurantID string) (bool, error) {
	return false, nil
}

func (missCache) SetNegativeCache(ctx context.Context, restaurantID string) error {
	return nil
}

// fakeBlobStore records uploads and serves URLs under a fixed base.
type fakeBlobStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return "https://cdn.example.com/" + key, nil
}

// testApp wires real services over in-memory fakes behind a chi router,
// mirroring the route layout the server mounts.
type testApp struct {
	router      *chi.Mux
	users       *fakeUserStore
	restaurants *fakeRestaurantStore
	images      *fakeImageStore
	blobs       *fakeBlobStore
}

func newTestApp() *testApp {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := newFakeUserStore()
	restaurants := &fakeRestaurantStore{}
	images := &fakeImageStore{}
	blobs := &fakeBlobStore{}

	guard := auth.NewGuard(users)
	authSvc := service.NewAuthService(users, auth.SchemeLegacy, nil)
	restSvc := service.NewRestaurantService(restaurants, images, missCache{}, guard, nil, nil)
	imgSvc := service.NewImageService(images, restaurants, blobs, missCache{}, guard, nil, 8<<20, nil)

	authHandler := NewAuthHandler(authSvc, nil, logger, false)
	restHandler := NewRestaurantHandler(restSvc, logger)
	imgHandler := NewImageHandler(imgSvc, 8<<20, logger)

	requireAuth := middleware.RequireAuth(middleware.AuthConfig{
		Logger: logger,
		Guard:  guard,
	})

	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", restHandler.List)
			r.Get("/search", restHandler.Search)
			r.With(requireAuth).Post("/", restHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", restHandler.Get)
				r.With(requireAuth).Put("/", restHandler.Update)
				r.With(requireAuth).Delete("/", restHandler.Delete)

				r.Route("/images", func(r chi.Router) {
					r.Get("/", imgHandler.List)
					r.With(requireAuth).Post("/", imgHandler.Upload)
					r.With(requireAuth).Delete("/", imgHandler.Delete)
				})
			})
		})
	})

	return &testApp{
		router:      r,
		users:       users,
		restaurants: restaurants,
		images:      images,
		blobs:       blobs,
	}
}
