package token

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/chukanavi/chukanavi/internal/model"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		email  string
	}{
		{"simple", "5c4f1a40-9d2e-4f7a-8a1b-1f2e3d4c5b6a", "user@example.com"},
		{"plus address", "u-1", "user+tag@example.co.jp"},
		{"numeric id", "12345", "a@b.io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := Encode(tt.userID, tt.email)

			claims, err := Decode(tok)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if claims.UserID != tt.userID {
				t.Errorf("userId = %q, want %q", claims.UserID, tt.userID)
			}
			if claims.Email != tt.email {
				t.Errorf("email = %q, want %q", claims.Email, tt.email)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"missing userId", base64.StdEncoding.EncodeToString([]byte(`{"email":"a@b.com"}`))},
		{"missing email", base64.StdEncoding.EncodeToString([]byte(`{"userId":"u-1"}`))},
		{"empty claims", base64.StdEncoding.EncodeToString([]byte(`{}`))},
		{"wrong types", base64.StdEncoding.EncodeToString([]byte(`{"userId":1,"email":2}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
			if Verify(tt.tok) {
				t.Errorf("Verify(%q) should be false", tt.tok)
			}
		})
	}
}

func TestVerify_Valid(t *testing.T) {
	tok := Encode("u-1", "a@b.com")
	if !Verify(tok) {
		t.Fatal("expected structurally valid token to verify")
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	if got := IdentityFromContext(ctx); got != nil {
		t.Fatalf("expected nil identity on empty context, got %+v", got)
	}
	if got := UserIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty user ID, got %q", got)
	}

	id := &model.Identity{UserID: "u-1", Email: "a@b.com", Nickname: "ryu"}
	ctx = ContextWithIdentity(ctx, id)

	if got := IdentityFromContext(ctx); got != id {
		t.Errorf("identity = %+v, want %+v", got, id)
	}
	if got := UserIDFromContext(ctx); got != "u-1" {
		t.Errorf("user ID = %q, want %q", got, "u-1")
	}
}
