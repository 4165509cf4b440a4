// Command seed-demo-data creates a demo account and a handful of sample
// restaurants so a fresh deployment has something to browse. Safe to run
// repeatedly: the demo user is reused and restaurants are only inserted
// when the account owns none.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/repository"
)

type output struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Restaurants []string `json:"restaurants"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "demo@chukanavi.local", "Demo account email")
		password    = flag.String("password", "demodemo", "Demo account password")
		nickname    = flag.String("nickname", "デモユーザー", "Demo account nickname")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := ensureUser(ctx, repo, *email, *password, *nickname)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	created, err := seedRestaurants(ctx, repo, user.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		UserID:      user.ID,
		Email:       user.Email,
		Password:    *password,
		Restaurants: created,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Printf("demo user %s (%s), %d restaurants seeded\n", out.Email, out.UserID, len(out.Restaurants))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func ensureUser(ctx context.Context, repo *repository.Repository, email, password, nickname string) (*model.User, error) {
	existing, err := repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return existing, nil
	}

	hash, err := auth.HashPassword(password, auth.SchemeArgon2id)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Nickname:     nickname,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func seedRestaurants(ctx context.Context, repo *repository.Repository, userID string) ([]string, error) {
	owned, err := repo.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	for _, rest := range owned {
		if rest.UserID == userID {
			return nil, nil
		}
	}

	samples := []*model.Restaurant{
		{
			Name:                "龍華楼",
			Address:             "横浜市中区山下町118",
			Phone:               "045-000-0001",
			BusinessHours:       model.BusinessHours{"monday": "11:00-21:30", "saturday": "11:00-22:00"},
			Holidays:            "水曜日",
			PriceRange:          "1000-2000",
			SeatingCapacity:     48,
			Parking:             false,
			ReservationRequired: false,
			PaymentMethods:      []string{"cash", "credit_card"},
		},
		{
			Name:                "福満園",
			Address:             "神戸市中央区元町通2-1",
			Phone:               "078-000-0002",
			BusinessHours:       model.BusinessHours{"monday": "11:30-22:00"},
			Holidays:            "不定休",
			PriceRange:          "2000-3000",
			SeatingCapacity:     80,
			Parking:             true,
			ReservationRequired: true,
			PaymentMethods:      []string{"cash", "credit_card", "qr_payment"},
		},
		{
			Name:                "蓬莱軒",
			Address:             "長崎市新地町10-13",
			Phone:               "095-000-0003",
			BusinessHours:       model.BusinessHours{"monday": "11:00-20:30"},
			Holidays:            "月曜日",
			PriceRange:          "-1000",
			SeatingCapacity:     22,
			Parking:             false,
			ReservationRequired: false,
			PaymentMethods:      []string{"cash"},
		},
	}

	created := make([]string, 0, len(samples))
	for _, rest := range samples {
		now := time.Now().UTC()
		rest.ID = uuid.NewString()
		rest.UserID = userID
		rest.CreatedAt = now
		rest.UpdatedAt = now
		if err := repo.CreateRestaurant(ctx, rest); err != nil {
			return created, fmt.Errorf("create restaurant %s: %w", rest.Name, err)
		}
		created = append(created, rest.Name)
	}
	return created, nil
}
