package model

import (
	"reflect"
	"testing"
)

func TestImageCategory_IsValid(t *testing.T) {
	tests := []struct {
		category ImageCategory
		want     bool
	}{
		{CategoryExterior, true},
		{CategoryInterior, true},
		{CategoryFood, true},
		{CategoryMenu, true},
		{ImageCategory(""), false},
		{ImageCategory("drinks"), false},
		{ImageCategory("Food"), false},
	}

	for _, tt := range tests {
		if got := tt.category.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestEmptyGroupedImages(t *testing.T) {
	g := EmptyGroupedImages()

	if len(g) != len(Categories) {
		t.Fatalf("expected %d categories, got %d", len(Categories), len(g))
	}

	for _, c := range Categories {
		urls, ok := g[c]
		if !ok {
			t.Errorf("category %q missing", c)
		}
		if len(urls) != 0 {
			t.Errorf("category %q should start empty, got %v", c, urls)
		}
	}
}

func TestGroupImages(t *testing.T) {
	images := []*Image{
		{Category: CategoryFood, ImageURL: "https://cdn.example.com/f1.jpg"},
		{Category: CategoryExterior, ImageURL: "https://cdn.example.com/e1.jpg"},
		{Category: CategoryFood, ImageURL: "https://cdn.example.com/f2.jpg"},
		{Category: ImageCategory("bogus"), ImageURL: "https://cdn.example.com/x.jpg"},
	}

	g := GroupImages(images)

	wantFood := []string{"https://cdn.example.com/f1.jpg", "https://cdn.example.com/f2.jpg"}
	if !reflect.DeepEqual(g[CategoryFood], wantFood) {
		t.Errorf("food urls = %v, want %v", g[CategoryFood], wantFood)
	}

	if len(g[CategoryExterior]) != 1 {
		t.Errorf("expected 1 exterior url, got %d", len(g[CategoryExterior]))
	}

	// Unknown categories are dropped, empty categories stay present.
	if len(g[CategoryMenu]) != 0 || len(g[CategoryInterior]) != 0 {
		t.Errorf("expected empty menu/interior, got %v / %v", g[CategoryMenu], g[CategoryInterior])
	}
	if len(g) != len(Categories) {
		t.Errorf("unexpected extra categories: %v", g)
	}
}
