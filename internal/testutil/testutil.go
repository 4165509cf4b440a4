package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/chukanavi/chukanavi/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730730

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// migrationPairs lists schema migrations in dependency order.
var migrationPairs = []string{
	"000001_users",
	"000002_restaurants",
	"000003_images",
}

// ResetSchema drops and recreates the full schema for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	// Down in reverse dependency order, then up.
	for i := len(migrationPairs) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, migrationPairs[i]+".down.sql"); err != nil {
			return err
		}
	}
	for _, pair := range migrationPairs {
		if err := applyMigration(ctx, pool, root, pair+".up.sql"); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, file string) error {
	sql, err := os.ReadFile(filepath.Join(root, "migrations", file))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", file, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: fmt.Sprintf("hash-%d", now.UnixNano()),
		Nickname:     "tester",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestRestaurant creates a test restaurant owned by the given user.
func NewTestRestaurant(t testing.TB, userID string) *model.Restaurant {
	t.Helper()
	now := time.Now().UTC()
	return &model.Restaurant{
		ID:             uuid.NewString(),
		Name:           "龍華楼",
		Address:        "横浜市中区山下町",
		Phone:          "045-000-0000",
		BusinessHours:  model.BusinessHours{"monday": "11:00-22:00"},
		PriceRange:     "1000-2000",
		PaymentMethods: []string{"cash", "card"},
		Images:         model.EmptyGroupedImages(),
		UserID:         userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewTestImage creates a test image row for the given restaurant.
func NewTestImage(t testing.TB, restaurantID string, category model.ImageCategory) *model.Image {
	t.Helper()
	now := time.Now().UTC()
	return &model.Image{
		ID:           UniqueID("img"),
		RestaurantID: restaurantID,
		Category:     category,
		ImageURL:     fmt.Sprintf("https://cdn.example.com/%s/%s/image_%d.jpg", restaurantID, category, now.UnixMilli()),
		FileName:     "photo.jpg",
		FileSize:     1024,
		MimeType:     "image/jpeg",
		CreatedAt:    now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
