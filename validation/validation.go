package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Violations maps a form field name to an error code such as "required".
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form name so violations line up with inputs.
	vd.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return vd
}

// Struct runs the `validate` tags of s and returns one code per field.
func Struct(s any) Violations {
	v := make(Violations)
	err := validate.Struct(s)
	if err == nil {
		return v
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v["_"] = "invalid"
		return v
	}
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), fe.Tag())
	}
	return v
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

// Date parses an optional YYYY-MM-DD value. Blank input returns nil.
func Date(field, value string, v Violations) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		v.Add(field, "invalid_date")
		return nil
	}
	return &t
}

// OneOf flags value unless it is blank or listed in choices.
func OneOf(field, value string, choices []string, v Violations) {
	if value == "" {
		return
	}
	for _, c := range choices {
		if c == value {
			return
		}
	}
	v.Add(field, "unknown_choice")
}

var (
	usZipRe    = regexp.MustCompile(`^\d{5}(\d{4})?$`)
	ukPostRe   = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\d[A-Z]{2}$`)
	caPostRe   = regexp.MustCompile(`^[A-Z]\d[A-Z]\d[A-Z]\d$`)
	postalHint = map[string]string{
		"United States":  "Format: 12345 or 12345-6789",
		"United Kingdom": "Format: SW1A 1AA",
		"Canada":         "Format: A1A 1A1",
	}
)

// NormalizePostalCode reformats recognised US, UK and Canadian codes
// ("123456789" → "12345-6789", "sw1a1aa" → "SW1A 1AA", "k1a0b1" → "K1A 0B1").
// Anything unrecognised is returned trimmed but otherwise untouched.
func NormalizePostalCode(country, code string) string {
	trimmed := strings.TrimSpace(code)
	switch country {
	case "United States":
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, trimmed)
		if !usZipRe.MatchString(digits) {
			return trimmed
		}
		if len(digits) == 9 {
			return digits[:5] + "-" + digits[5:]
		}
		return digits
	case "United Kingdom", "Canada":
		compact := strings.ToUpper(strings.Join(strings.Fields(trimmed), ""))
		re := ukPostRe
		if country == "Canada" {
			re = caPostRe
		}
		if !re.MatchString(compact) {
			return trimmed
		}
		return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
	}
	return trimmed
}

// PostalHint describes the expected postal code shape for country.
func PostalHint(country string) string {
	return postalHint[country]
}
