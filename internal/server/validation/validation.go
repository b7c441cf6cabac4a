// Package validation provides pure, stateless checks and normalization for
// primitive inputs. Every function either returns a normalized value or a
// BAD_REQUEST error with a human-readable reason; absent optional fields are
// the caller's concern, only present-but-invalid values fail here.
package validation

import (
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
)

// MinSalary is the inclusive lower bound for employee salaries.
const MinSalary = 1000

var validate = validator.New()

// genders is the fixed enumeration accepted for the employee gender field.
var genders = []string{"Male", "Female", "Other"}

// dateLayouts lists the accepted date-of-joining formats, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// IsValidEmail reports whether s is an RFC-compliant email address.
func IsValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsValidGender reports membership in the gender enumeration.
func IsValidGender(g string) bool {
	for _, v := range genders {
		if g == v {
			return true
		}
	}
	return false
}

// NormalizeString trims surrounding whitespace. Case is left untouched;
// emails go through NormalizeEmail instead.
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseSalary validates a salary value: it must be a finite number and at
// least MinSalary.
func ParseSalary(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.BadRequest("salary must be a number")
	}
	if v < MinSalary {
		return 0, apperr.BadRequest("salary must be >= %d", MinSalary)
	}
	return v, nil
}

// ParseDate parses a calendar date, accepting YYYY-MM-DD or RFC 3339.
func ParseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.BadRequest("date_of_joining must be a valid date string")
}
