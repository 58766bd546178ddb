package utils

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gosimple/slug"
)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Slugify returns the URL-safe slug of override when given, else of name.
func Slugify(name string, override *string) string {
	src := name
	if override != nil && strings.TrimSpace(*override) != "" {
		src = *override
	}
	return slug.Make(src)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
