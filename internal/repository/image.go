package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chukanavi/chukanavi/internal/model"
)

// ErrImageNotFound indicates the image row does not exist.
var ErrImageNotFound = errors.New("image not found")

const imageColumns = "id, restaurant_id, category, image_url, file_name, file_size, mime_type, created_at"

// CreateImage inserts a new image metadata row. The referenced restaurant
// must exist; there is no orphan-create path.
func (r *Repository) CreateImage(ctx context.Context, img *model.Image) error {
	query := `
		INSERT INTO images (id, restaurant_id, category, image_url, file_name, file_size, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		img.ID,
		img.RestaurantID,
		string(img.Category),
		img.ImageURL,
		img.FileName,
		img.FileSize,
		img.MimeType,
		img.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	return nil
}

// GetImageByID retrieves an image by its ID.
func (r *Repository) GetImageByID(ctx context.Context, id string) (*model.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

	img, err := scanImage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image by ID: %w", err)
	}

	return img, nil
}

// ListImagesByRestaurant retrieves all images for a restaurant, newest first.
func (r *Repository) ListImagesByRestaurant(ctx context.Context, restaurantID string) ([]*model.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE restaurant_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*model.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}

// DeleteImage removes an image metadata row.
func (r *Repository) DeleteImage(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrImageNotFound
	}

	return nil
}

// scanImage scans a single row into an Image model.
func scanImage(row pgx.Row) (*model.Image, error) {
	var (
		img      model.Image
		category string
	)
	err := row.Scan(
		&img.ID,
		&img.RestaurantID,
		&category,
		&img.ImageURL,
		&img.FileName,
		&img.FileSize,
		&img.MimeType,
		&img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	img.Category = model.ImageCategory(category)
	return &img, nil
}
