package dto

import "github.com/chukanavi/chukanavi/internal/model"

// CreateRestaurantRequest represents the request body for creating a
// restaurant. The owner comes from the verified identity, never the body.
type CreateRestaurantRequest struct {
	Name                string              `json:"name"`
	Address             string              `json:"address"`
	Phone               string              `json:"phone,omitempty"`
	BusinessHours       model.BusinessHours `json:"business_hours,omitempty"`
	Holidays            string              `json:"holidays,omitempty"`
	PriceRange          string              `json:"price_range,omitempty"`
	SeatingCapacity     int                 `json:"seating_capacity,omitempty"`
	Parking             bool                `json:"parking,omitempty"`
	ReservationRequired bool                `json:"reservation_required,omitempty"`
	PaymentMethods      []string            `json:"payment_methods,omitempty"`
}

// UpdateRestaurantRequest represents the request body for a partial
// restaurant update. Absent fields are left unchanged. There is
// deliberately no images field: inline image payloads are dropped on
// decode, images change only through the image endpoints.
type UpdateRestaurantRequest struct {
	Name                *string              `json:"name,omitempty"`
	Address             *string              `json:"address,omitempty"`
	Phone               *string              `json:"phone,omitempty"`
	BusinessHours       *model.BusinessHours `json:"business_hours,omitempty"`
	Holidays            *string              `json:"holidays,omitempty"`
	PriceRange          *string              `json:"price_range,omitempty"`
	SeatingCapacity     *int                 `json:"seating_capacity,omitempty"`
	Parking             *bool                `json:"parking,omitempty"`
	ReservationRequired *bool                `json:"reservation_required,omitempty"`
	PaymentMethods      *[]string            `json:"payment_methods,omitempty"`
}
