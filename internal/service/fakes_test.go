package service

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/chukanavi/chukanavi/internal/cache"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/repository"
)

// In-memory fakes for the store interfaces. They mirror the repository's
// sentinel errors so errors.Is mapping in the services is exercised.

type fakeUserStore struct {
	users map[string]*model.User // by ID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetUserByEmailAndHash(_ context.Context, email, passwordHash string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.PasswordHash == passwordHash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeRestaurantStore struct {
	restaurants map[string]*model.Restaurant
	seq         int // insertion order stand-in for created_at ordering
	order       map[string]int
	gets        int
}

func newFakeRestaurantStore() *fakeRestaurantStore {
	return &fakeRestaurantStore{
		restaurants: make(map[string]*model.Restaurant),
		order:       make(map[string]int),
	}
}

func (f *fakeRestaurantStore) CreateRestaurant(_ context.Context, rest *model.Restaurant) error {
	cp := *rest
	f.restaurants[rest.ID] = &cp
	f.seq++
	f.order[rest.ID] = f.seq
	return nil
}

func (f *fakeRestaurantStore) GetRestaurantByID(_ context.Context, id string) (*model.Restaurant, error) {
	f.gets++
	r, ok := f.restaurants[id]
	if !ok {
		return nil, repository.ErrRestaurantNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRestaurantStore) ListRestaurants(_ context.Context) ([]*model.Restaurant, error) {
	out := make([]*model.Restaurant, 0, len(f.restaurants))
	for _, r := range f.restaurants {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return f.order[out[i].ID] > f.order[out[j].ID]
	})
	return out, nil
}

func (f *fakeRestaurantStore) SearchRestaurants(ctx context.Context, filter model.SearchFilter) ([]*model.Restaurant, error) {
	all, _ := f.ListRestaurants(ctx)
	out := make([]*model.Restaurant, 0, len(all))
	for _, r := range all {
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			name := strings.ToLower(r.Name)
			addr := strings.ToLower(r.Address)
			if !strings.Contains(name, q) && !strings.Contains(addr, q) {
				continue
			}
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
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRestaurantStore) UpdateRestaurant(_ context.Context, rest *model.Restaurant) error {
	if _, ok := f.restaurants[rest.ID]; !ok {
		return repository.ErrRestaurantNotFound
	}
	cp := *rest
	f.restaurants[rest.ID] = &cp
	return nil
}

func (f *fakeRestaurantStore) DeleteRestaurant(_ context.Context, id string) error {
	if _, ok := f.restaurants[id]; !ok {
		return repository.ErrRestaurantNotFound
	}
	delete(f.restaurants, id)
	return nil
}

type fakeImageStore struct {
	images []*model.Image // newest first
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{}
}

func (f *fakeImageStore) CreateImage(_ context.Context, img *model.Image) error {
	cp := *img
	f.images = append([]*model.Image{&cp}, f.images...)
	return nil
}

func (f *fakeImageStore) GetImageByID(_ context.Context, id string) (*model.Image, error) {
	for _, img := range f.images {
		if img.ID == id {
			cp := *img
			return &cp, nil
		}
	}
	return nil, repository.ErrImageNotFound
}

func (f *fakeImageStore) ListImagesByRestaurant(_ context.Context, restaurantID string) ([]*model.Image, error) {
	out := make([]*model.Image, 0)
	for _, img := range f.images {
		if img.RestaurantID == restaurantID {
			cp := *img
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeImageStore) DeleteImage(_ context.Context, id string) error {
	for i, img := range f.images {
		if img.ID == id {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return nil
		}
	}
	return repository.ErrImageNotFound
}

type fakeImagesCache struct {
	entries  map[string]model.GroupedImages
	negative map[string]bool
	sets     int
	deletes  int
	negSets  int
}

func newFakeImagesCache() *fakeImagesCache {
	return &fakeImagesCache{
		entries:  make(map[string]model.GroupedImages),
		negative: make(map[string]bool),
	}
}

func (f *fakeImagesCache) GetImages(_ context.Context, restaurantID string) (model.GroupedImages, error) {
	g, ok := f.entries[restaurantID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return g, nil
}

func (f *fakeImagesCache) SetImages(_ context.Context, restaurantID string, grouped model.GroupedImages) error {
	f.entries[restaurantID] = grouped
	delete(f.negative, restaurantID)
	f.sets++
	return nil
}

func (f *fakeImagesCache) DeleteImages(_ context.Context, restaurantID string) error {
	delete(f.entries, restaurantID)
	delete(f.negative, restaurantID)
	f.deletes++
	return nil
}

func (f *fakeImagesCache) IsNegativelyCached(_ context.Context, restaurantID string) (bool, error) {
	return f.negative[restaurantID], nil
}

func (f *fakeImagesCache) SetNegativeCache(_ context.Context, restaurantID string) error {
	f.negative[restaurantID] = true
	f.negSets++
	return nil
}

type fakeBlobStore struct {
	uploads map[string][]byte // key -> content
	err     error             // returned from Upload when set
	baseURL string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		uploads: make(map[string][]byte),
		baseURL: "https://cdn.example.com",
	}
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploads[key] = data
	return f.baseURL + "/" + key, nil
}

type fakeCleanup struct {
	published []string
}

func (f *fakeCleanup) PublishRemoval(_ context.Context, imageURL string) error {
	f.published = append(f.published, imageURL)
	return nil
}
