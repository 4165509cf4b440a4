package state

import (
	"sync"

	"github.com/chukanavi/chukanavi/internal/model"
)

// RestaurantState holds the fetched restaurant list and the currently
// selected restaurant.
type RestaurantState struct {
	mu          sync.RWMutex
	restaurants []*model.Restaurant
	selected    *model.Restaurant

	notifier
}

// NewRestaurantState creates an empty RestaurantState.
func NewRestaurantState() *RestaurantState {
	return &RestaurantState{}
}

// Subscribe registers a listener invoked after every mutation.
func (s *RestaurantState) Subscribe(fn func()) Unsubscribe {
	return s.subscribe(fn)
}

// SetAll replaces the restaurant list.
func (s *RestaurantState) SetAll(restaurants []*model.Restaurant) {
	s.mu.Lock()
	s.restaurants = copyRestaurants(restaurants)
	s.mu.Unlock()
	s.notify()
}

// All returns the current restaurant list.
func (s *RestaurantState) All() []*model.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRestaurants(s.restaurants)
}

// Select stores the currently viewed restaurant.
func (s *RestaurantState) Select(rest *model.Restaurant) {
	s.mu.Lock()
	if rest != nil {
		copied := *rest
		s.selected = &copied
	} else {
		s.selected = nil
	}
	s.mu.Unlock()
	s.notify()
}

// Selected returns the currently viewed restaurant, or nil.
func (s *RestaurantState) Selected() *model.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	copied := *s.selected
	return &copied
}

// Upsert adds a restaurant to the front of the list, or replaces it in
// place when already present. The selected restaurant is refreshed when
// it is the one updated.
func (s *RestaurantState) Upsert(rest *model.Restaurant) {
	if rest == nil {
		return
	}
	copied := *rest

	s.mu.Lock()
	replaced := false
	for i, r := range s.restaurants {
		if r.ID == copied.ID {
			s.restaurants[i] = &copied
			replaced = true
			break
		}
	}
	if !replaced {
		s.restaurants = append([]*model.Restaurant{&copied}, s.restaurants...)
	}
	if s.selected != nil && s.selected.ID == copied.ID {
		sel := copied
		s.selected = &sel
	}
	s.mu.Unlock()
	s.notify()
}

// Remove drops a restaurant from the list and deselects it if selected.
func (s *RestaurantState) Remove(id string) {
	s.mu.Lock()
	for i, r := range s.restaurants {
		if r.ID == id {
			s.restaurants = append(s.restaurants[:i], s.restaurants[i+1:]...)
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	s.notify()
}

func copyRestaurants(in []*model.Restaurant) []*model.Restaurant {
	out := make([]*model.Restaurant, 0, len(in))
	for _, r := range in {
		copied := *r
		out = append(out, &copied)
	}
	return out
}
