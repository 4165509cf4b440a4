package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/chukanavi/chukanavi/internal/model"
)

// ErrRestaurantNotFound indicates the restaurant row does not exist.
var ErrRestaurantNotFound = errors.New("restaurant not found")

const restaurantColumns = `id, name, address, phone, business_hours, holidays, price_range,
		seating_capacity, parking, reservation_required, payment_methods, user_id, created_at, updated_at`

// CreateRestaurant inserts a new restaurant.
func (r *Repository) CreateRestaurant(ctx context.Context, rest *model.Restaurant) error {
	hours, err := marshalBusinessHours(rest.BusinessHours)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO restaurants (id, name, address, phone, business_hours, holidays, price_range,
			seating_capacity, parking, reservation_required, payment_methods, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.pool.Exec(ctx, query,
		rest.ID,
		rest.Name,
		rest.Address,
		rest.Phone,
		hours,
		rest.Holidays,
		rest.PriceRange,
		rest.SeatingCapacity,
		rest.Parking,
		rest.ReservationRequired,
		rest.PaymentMethods,
		rest.UserID,
		rest.CreatedAt,
		rest.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}

	return nil
}

// GetRestaurantByID retrieves a restaurant by its ID.
func (r *Repository) GetRestaurantByID(ctx context.Context, id string) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant by ID: %w", err)
	}

	return rest, nil
}

// ListRestaurants retrieves all restaurants, most-recently-created first.
func (r *Repository) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// SearchRestaurants retrieves restaurants matching the ANDed filters,
// newest first. Query matches name OR address case-insensitively; the
// remaining filters are exact-match equality. Absent filters do not
// constrain.
func (r *Repository) SearchRestaurants(ctx context.Context, filter model.SearchFilter) ([]*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.Query != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR address ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		argIndex++
	}

	if filter.PriceRange != "" {
		query += fmt.Sprintf(" AND price_range = $%d", argIndex)
		args = append(args, filter.PriceRange)
		argIndex++
	}

	if filter.Parking != nil {
		query += fmt.Sprintf(" AND parking = $%d", argIndex)
		args = append(args, *filter.Parking)
		argIndex++
	}

	if filter.ReservationRequired != nil {
		query += fmt.Sprintf(" AND reservation_required = $%d", argIndex)
		args = append(args, *filter.ReservationRequired)
		argIndex++
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// UpdateRestaurant updates a restaurant's mutable fields.
// user_id is immutable after creation and is never part of the SET list.
func (r *Repository) UpdateRestaurant(ctx context.Context, rest *model.Restaurant) error {
	hours, err := marshalBusinessHours(rest.BusinessHours)
	if err != nil {
		return err
	}

	query := `
		UPDATE restaurants
		SET name = $2, address = $3, phone = $4, business_hours = $5, holidays = $6,
			price_range = $7, seating_capacity = $8, parking = $9, reservation_required = $10,
			payment_methods = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		rest.ID,
		rest.Name,
		rest.Address,
		rest.Phone,
		hours,
		rest.Holidays,
		rest.PriceRange,
		rest.SeatingCapacity,
		rest.Parking,
		rest.ReservationRequired,
		rest.PaymentMethods,
		rest.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}

	return nil
}

// DeleteRestaurant removes a restaurant. Image rows cascade via FK.
func (r *Repository) DeleteRestaurant(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}

	return nil
}

// scanRestaurant scans a single row into a Restaurant model.
func scanRestaurant(row pgx.Row) (*model.Restaurant, error) {
	var (
		rest  model.Restaurant
		hours []byte
	)
	err := row.Scan(
		&rest.ID,
		&rest.Name,
		&rest.Address,
		&rest.Phone,
		&hours,
		&rest.Holidays,
		&rest.PriceRange,
		&rest.SeatingCapacity,
		&rest.Parking,
		&rest.ReservationRequired,
		&rest.PaymentMethods,
		&rest.UserID,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &rest.BusinessHours); err != nil {
			return nil, fmt.Errorf("failed to decode business hours: %w", err)
		}
	}

	return &rest, nil
}

// collectRestaurants drains rows into a slice.
func collectRestaurants(rows pgx.Rows) ([]*model.Restaurant, error) {
	var restaurants []*model.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}

	return restaurants, nil
}

// marshalBusinessHours encodes hours for the jsonb column; nil stays NULL.
func marshalBusinessHours(hours model.BusinessHours) ([]byte, error) {
	if hours == nil {
		return nil, nil
	}
	data, err := json.Marshal(hours)
	if err != nil {
		return nil, fmt.Errorf("failed to encode business hours: %w", err)
	}
	return data, nil
}

// likeEscaper escapes LIKE metacharacters in user-supplied search text.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
