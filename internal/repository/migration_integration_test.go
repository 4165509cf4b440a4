//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chukanavi/chukanavi/internal/testutil"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	tables := []string{
		"users",
		"restaurants",
		"images",
	}

	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, pool, table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_RestaurantsTableSchema(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	expectedColumns := []string{
		"id",
		"name",
		"address",
		"phone",
		"business_hours",
		"holidays",
		"price_range",
		"seating_capacity",
		"parking",
		"reservation_required",
		"payment_methods",
		"user_id",
		"created_at",
		"updated_at",
	}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, pool, "restaurants", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in restaurants table", col)
			}
		})
	}
}

func TestIntegrationMigration_ImageCategoryConstraint(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueID("mig")+"@example.com")
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, nickname, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`, user.ID, user.Email, user.PasswordHash, user.Nickname)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	rest := testutil.NewTestRestaurant(t, user.ID)
	_, err = pool.Exec(ctx, `
		INSERT INTO restaurants (id, name, address, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`, rest.ID, rest.Name, rest.Address, user.ID)
	if err != nil {
		t.Fatalf("insert restaurant: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO images (id, restaurant_id, category, image_url, file_name, created_at)
		VALUES ($1, $2, 'selfie', 'https://example.com/x.jpg', 'x.jpg', now())
	`, testutil.UniqueID("img"), rest.ID)
	if err == nil {
		t.Error("Expected check constraint violation for invalid category")
	}
}

func TestIntegrationMigration_EmailUnique(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	email := testutil.UniqueID("uniq") + "@example.com"
	first := testutil.NewTestUser(t, email)
	second := testutil.NewTestUser(t, email)

	insert := `
		INSERT INTO users (id, email, password_hash, nickname, created_at, updated_at)
		VALUES ($1, $2, 'hash', 'nick', now(), now())
	`
	if _, err := pool.Exec(ctx, insert, first.ID, email); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := pool.Exec(ctx, insert, second.ID, email); err == nil {
		t.Error("Expected unique violation for duplicate email")
	}
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}

func newMigrationTestEnv(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, pool
}
