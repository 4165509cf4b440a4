// Package token implements the opaque identity token exchanged on every
// authenticated request. A token is base64(json({userId, email})): a
// reversible assertion with no signature, expiry, or server-side record.
// Possession of a structurally valid token for a real user grants that
// user's identity, so resolved claims must always be re-verified against
// the users table before they are acted on.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// ErrInvalidToken indicates a token that cannot be decoded or is missing
// required claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity assertion carried by a token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Encode serializes the claims to JSON and base64-encodes them.
// Pure function; no signing, no expiry.
func Encode(userID, email string) string {
	data, _ := json.Marshal(Claims{UserID: userID, Email: email})
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode. Returns ErrInvalidToken if the input is not
// base64, not JSON, or is missing userId or email.
func Decode(tok string) (Claims, error) {
	data, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.UserID == "" || claims.Email == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// Verify reports whether the token is structurally valid. It does NOT
// check that the user still exists or that the email matches current
// records; callers needing a trusted identity must hit the store.
func Verify(tok string) bool {
	_, err := Decode(tok)
	return err == nil
}
