package normalize

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email trims and lower-cases an address and checks it has a local@domain.tld shape.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", &FieldError{Field: "email", Err: ErrFieldRequired}
	}
	if !emailPattern.MatchString(email) {
		return "", &FieldError{Field: "email", Err: ErrInvalidEmail}
	}
	return email, nil
}

// Required trims value and rejects it when nothing is left.
func Required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &FieldError{Field: field, Err: ErrFieldRequired}
	}
	return v, nil
}

// RequiredList trims every element and rejects an empty list.
func RequiredList(field string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, &FieldError{Field: field, Err: ErrFieldRequired}
	}
	return TrimList(values), nil
}

// TrimList returns a trimmed copy of values; nil becomes an empty slice.
func TrimList(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
