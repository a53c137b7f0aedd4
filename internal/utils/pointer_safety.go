package utils

import "strings"

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// TextOr returns the trimmed text of v, or fallback when v is nil or blank.
// Elements such as <reasonUnavailable/> decode to a non-nil empty string and are
// treated the same as a missing element.
func TextOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	if s := strings.TrimSpace(*v); s != "" {
		return s
	}
	return fallback
}
