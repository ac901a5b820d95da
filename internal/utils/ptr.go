package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// Returns nil on an empty or all whitespace string, otherwise the trimmed string
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NonNil turns a nil slice into an empty one so it encodes as [] rather than null
func NonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
