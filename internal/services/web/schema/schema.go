// Package schema validates resource payloads before they are sent upstream.
//
// A Checker collects every failing field instead of stopping at the first, so
// callers can report all problems at once. Err returns a validation error from
// platform/errors, or nil.
package schema

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
)

const (
	// MaxNameLength bounds resource names.
	MaxNameLength = 100
	// MaxTagNameLength bounds tag names.
	MaxTagNameLength = 32
	// MaxTitleLength bounds document titles.
	MaxTitleLength = 200
	// MaxDescriptionLength bounds free-form descriptions.
	MaxDescriptionLength = 2000
	// MaxAvatarBytes bounds avatar uploads.
	MaxAvatarBytes = 5 << 20

	minSlugLength = 3
	maxSlugLength = 48
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Checker accumulates field failures.
type Checker struct {
	errs *multierror.Error
}

// Fail records a failure for field.
func (c *Checker) Fail(field, format string, args ...any) {
	c.errs = multierror.Append(c.errs, apperrors.FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err returns the aggregated validation error, or nil when every check passed.
func (c *Checker) Err() error {
	return apperrors.Validation(c.errs.ErrorOrNil())
}

// Name requires a trimmed, non-empty value of at most max runes and returns
// the trimmed value.
func (c *Checker) Name(field, value string, max int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		c.Fail(field, "is required")
		return value
	}
	if utf8.RuneCountInString(value) > max {
		c.Fail(field, "must be at most %d characters", max)
	}
	return value
}

// OptionalName validates a name only when one is given.
func (c *Checker) OptionalName(field string, value *string, max int) *string {
	if value == nil {
		return nil
	}
	trimmed := c.Name(field, *value, max)
	return &trimmed
}

// MaxLength bounds an optional free-form value and returns it trimmed.
func (c *Checker) MaxLength(field, value string, max int) string {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		c.Fail(field, "must be at most %d characters", max)
	}
	return value
}

// Color accepts "#rgb" or "#rrggbb"; empty is allowed unless required.
func (c *Checker) Color(field, value string, required bool) string {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			c.Fail(field, "is required")
		}
		return value
	}
	if !hexColorPattern.MatchString(value) {
		c.Fail(field, "must be a hex color like #1f2937")
	}
	return strings.ToLower(value)
}

// Slug requires lowercase letters, digits, and hyphens, 3 to 48 long.
func (c *Checker) Slug(field, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		c.Fail(field, "is required")
	case len(value) < minSlugLength || len(value) > maxSlugLength:
		c.Fail(field, "must be between %d and %d characters", minSlugLength, maxSlugLength)
	case !slugPattern.MatchString(value):
		c.Fail(field, "may only contain lowercase letters, digits, and hyphens")
	}
	return value
}

// ID requires a non-empty identifier.
func (c *Checker) ID(field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		c.Fail(field, "is required")
	}
	return value
}

// Email accepts an empty value or a single parseable address.
func (c *Checker) Email(field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		c.Fail(field, "must be a valid email address")
	}
	return value
}

// Upload requires a non-empty payload of at most max bytes.
func (c *Checker) Upload(field string, data []byte, max int) {
	switch {
	case len(data) == 0:
		c.Fail(field, "is required")
	case len(data) > max:
		c.Fail(field, "must be at most %d bytes", max)
	}
}

// NonNegative rejects negative numbers.
func (c *Checker) NonNegative(field string, value int) {
	if value < 0 {
		c.Fail(field, "must not be negative")
	}
}

// Positive rejects zero and negative numbers.
func (c *Checker) Positive(field string, value int) {
	if value <= 0 {
		c.Fail(field, "must be positive")
	}
}

// RequireID returns a validation error when id is blank. Resource services use
// it to guard path parameters before building a request.
func RequireID(field, id string) (string, error) {
	var check Checker
	id = check.ID(field, id)
	return id, check.Err()
}
