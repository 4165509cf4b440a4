package storage

import (
	"strings"
	"testing"
)

func TestNew_PublicURLFromEndpoint(t *testing.T) {
	c, err := New(Config{
		Endpoint: "localhost:9000",
		Bucket:   "restaurant-images",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	got := c.PublicURL("r-1/food/image_1.jpg")
	want := "http://localhost:9000/restaurant-images/r-1/food/image_1.jpg"
	if got != want {
		t.Errorf("url = %s, want %s", got, want)
	}
}

func TestNew_PublicURLFromCDNBase(t *testing.T) {
	c, err := New(Config{
		Endpoint:      "localhost:9000",
		Bucket:        "restaurant-images",
		UseSSL:        true,
		PublicBaseURL: "https://cdn.example.com/images/",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	got := c.PublicURL("r-1/menu/image_2.png")
	want := "https://cdn.example.com/images/r-1/menu/image_2.png"
	if got != want {
		t.Errorf("url = %s, want %s", got, want)
	}
}

func TestPlaceholderURL(t *testing.T) {
	got := PlaceholderURL("r-1/food/image_1.jpg")
	if !strings.HasPrefix(got, "https://images.invalid/") {
		t.Errorf("placeholder should use reserved host, got %s", got)
	}
	if !strings.HasSuffix(got, "r-1/food/image_1.jpg") {
		t.Errorf("placeholder should carry the key, got %s", got)
	}
}
