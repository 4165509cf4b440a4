package state

import (
	"sync"

	"github.com/chukanavi/chukanavi/internal/model"
)

// SearchState holds the last search filter and its results.
type SearchState struct {
	mu      sync.RWMutex
	filter  model.SearchFilter
	results []*model.Restaurant

	notifier
}

// NewSearchState creates an empty SearchState.
func NewSearchState() *SearchState {
	return &SearchState{}
}

// Subscribe registers a listener invoked after every mutation.
func (s *SearchState) Subscribe(fn func()) Unsubscribe {
	return s.subscribe(fn)
}

// SetResults stores a completed search.
func (s *SearchState) SetResults(filter model.SearchFilter, results []*model.Restaurant) {
	s.mu.Lock()
	s.filter = filter
	s.results = copyRestaurants(results)
	s.mu.Unlock()
	s.notify()
}

// Filter returns the filter of the last search.
func (s *SearchState) Filter() model.SearchFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Results returns the results of the last search.
func (s *SearchState) Results() []*model.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRestaurants(s.results)
}

// Clear resets the filter and results.
func (s *SearchState) Clear() {
	s.mu.Lock()
	s.filter = model.SearchFilter{}
	s.results = nil
	s.mu.Unlock()
	s.notify()
}
