// Package middleware provides HTTP middleware for the Chukanavi API.
package middleware

import (
	"errors"
	"strings"
)

// Validation limits.
const (
	// MaxFileNameLength is the maximum length for uploaded file names.
	MaxFileNameLength = 255

	// MaxNameLength is the maximum length for restaurant names.
	MaxNameLength = 200

	// MaxAddressLength is the maximum length for addresses.
	MaxAddressLength = 500
)

// Validation errors.
var (
	ErrFileNameTooLong  = errors.New("file name exceeds maximum length")
	ErrFileNameInvalid  = errors.New("file name contains invalid characters")
	ErrMIMETypeInvalid  = errors.New("file type is not an allowed image type")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrAddressTooLong   = errors.New("address exceeds maximum length")
)

// AllowedImageMIMETypes lists upload content types accepted by the API.
var AllowedImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateFileName validates an uploaded file name.
// Path separators are rejected so names cannot escape the blob key layout.
func ValidateFileName(name string) error {
	if name == "" {
		return ErrFileNameInvalid
	}
	if len(name) > MaxFileNameLength {
		return ErrFileNameTooLong
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return ErrFileNameInvalid
	}
	return nil
}

// ValidateImageMIMEType validates an upload content type.
// Parameters after a semicolon are ignored.
func ValidateImageMIMEType(mimeType string) error {
	base := mimeType
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = base[:i]
	}
	base = strings.ToLower(strings.TrimSpace(base))
	if !AllowedImageMIMETypes[base] {
		return ErrMIMETypeInvalid
	}
	return nil
}

// ValidateRestaurantName bounds restaurant name length.
func ValidateRestaurantName(name string) error {
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ValidateAddress bounds address length.
func ValidateAddress(address string) error {
	if len(address) > MaxAddressLength {
		return ErrAddressTooLong
	}
	return nil
}
