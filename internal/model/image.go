package model

import "time"

// ImageCategory partitions a restaurant's photo set.
type ImageCategory string

const (
	CategoryExterior ImageCategory = "exterior"
	CategoryInterior ImageCategory = "interior"
	CategoryFood     ImageCategory = "food"
	CategoryMenu     ImageCategory = "menu"
)

// Categories lists every valid image category in display order.
var Categories = []ImageCategory{
	CategoryExterior,
	CategoryInterior,
	CategoryFood,
	CategoryMenu,
}

// IsValid checks if the category is one of the known values.
func (c ImageCategory) IsValid() bool {
	switch c {
	case CategoryExterior, CategoryInterior, CategoryFood, CategoryMenu:
		return true
	}
	return false
}

// Image is a photo attached to a restaurant. Ownership follows the parent
// restaurant's owner; there is no separate ACL.
type Image struct {
	ID           string        `json:"id"`
	RestaurantID string        `json:"restaurant_id"`
	Category     ImageCategory `json:"category"`
	ImageURL     string        `json:"image_url"`
	FileName     string        `json:"file_name"`
	FileSize     int64         `json:"file_size"`
	MimeType     string        `json:"mime_type"`
	CreatedAt    time.Time     `json:"created_at"`
}

// GroupedImages reshapes an image list into category -> ordered URL list
// for display. Every category key is always present, possibly empty.
type GroupedImages map[ImageCategory][]string

// EmptyGroupedImages returns a grouped map with all categories present.
func EmptyGroupedImages() GroupedImages {
	g := make(GroupedImages, len(Categories))
	for _, c := range Categories {
		g[c] = []string{}
	}
	return g
}

// GroupImages buckets images by category, preserving input order.
// Images with an unknown category are dropped.
func GroupImages(images []*Image) GroupedImages {
	g := EmptyGroupedImages()
	for _, img := range images {
		if !img.Category.IsValid() {
			continue
		}
		g[img.Category] = append(g[img.Category], img.ImageURL)
	}
	return g
}
