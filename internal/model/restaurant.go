package model

import "time"

// Restaurant is a directory listing. It is owned exclusively by the user
// who created it; UserID never changes after creation.
type Restaurant struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Address             string         `json:"address"`
	Phone               string         `json:"phone,omitempty"`
	BusinessHours       BusinessHours  `json:"business_hours,omitempty"`
	Holidays            string         `json:"holidays,omitempty"`
	PriceRange          string         `json:"price_range,omitempty"`
	SeatingCapacity     int            `json:"seating_capacity,omitempty"`
	Parking             bool           `json:"parking"`
	ReservationRequired bool           `json:"reservation_required"`
	PaymentMethods      []string       `json:"payment_methods,omitempty"`
	Images              GroupedImages  `json:"images"`
	UserID              string         `json:"user_id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// BusinessHours maps a weekday name to an opening-hours description,
// e.g. "monday" -> "11:00-22:00".
type BusinessHours map[string]string

// SearchFilter holds restaurant search criteria. All present filters are
// ANDed; a zero-value field means "don't constrain".
type SearchFilter struct {
	Query               string
	PriceRange          string
	Parking             *bool
	ReservationRequired *bool
}
