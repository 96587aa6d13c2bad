// Package slug derives and reserves URL-safe article identifiers.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Pattern defines the valid slug format: lowercase alphanumeric segments
// separated by single hyphens.
var Pattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// maxSuffix bounds the derived-slug suffix search.
const maxSuffix = 1000

// ErrConflict is returned when an explicitly requested slug is already taken.
type ErrConflict struct {
	Slug string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("slug %q is already taken", e.Slug)
}

// ErrInvalid is returned when a slug normalizes to nothing usable.
type ErrInvalid struct {
	Input string
}

func (e *ErrInvalid) Error() string {
	return fmt.Sprintf("cannot derive a valid slug from %q", e.Input)
}

// Checker answers whether a slug is already in use. The store's unique
// indexes remain the authoritative check; this is the fast path.
type Checker interface {
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases the input, replaces every non-alphanumeric run with a
// single hyphen and trims leading/trailing hyphens.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return s != "" && len(s) <= 200 && Pattern.MatchString(s)
}

// Allocate picks a unique slug for the entity identified by excludeID.
//
// When desired is non-empty it is normalized and must be free as-is; a
// collision fails with ErrConflict and no automatic suffixing occurs.
// Otherwise the slug is derived from title, appending -1, -2, ... until a
// free slug is found, lowest suffix first.
func Allocate(ctx context.Context, checker Checker, title, desired string, excludeID uuid.UUID) (string, error) {
	if desired != "" {
		normalized := Normalize(desired)
		if normalized == "" {
			return "", &ErrInvalid{Input: desired}
		}
		taken, err := checker.SlugExists(ctx, normalized, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", &ErrConflict{Slug: normalized}
		}
		return normalized, nil
	}

	base := Normalize(title)
	if base == "" {
		return "", &ErrInvalid{Input: title}
	}

	candidate := base
	for i := 1; i <= maxSuffix; i++ {
		taken, err := checker.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", &ErrConflict{Slug: base}
}
