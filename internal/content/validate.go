package content

import (
	"net/url"
	"strings"
)

// Validate checks all fields and collects all errors.
func (d Draft) Validate() error {
	var errs []FieldError
	errs = checkType(errs, d.Type)
	errs = checkURL(errs, d.URL)
	errs = checkTitle(errs, d.Title)
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Validate checks the fields present in the patch with the same rules as Draft.
func (p Patch) Validate() error {
	if p.Empty() {
		return NewValidationError("data", "at least one field is required")
	}
	var errs []FieldError
	if p.Type != nil {
		errs = checkType(errs, *p.Type)
	}
	if p.URL != nil {
		errs = checkURL(errs, *p.URL)
	}
	if p.Title != nil {
		errs = checkTitle(errs, *p.Title)
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ValidateID rejects blank identifiers.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError("id", "required")
	}
	return nil
}

// ValidateType rejects blank and unknown types.
func ValidateType(t Type) error {
	if errs := checkType(nil, t); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ValidURL reports whether s is an absolute URI with a scheme and a host
// (or an opaque part, as in mailto:).
func ValidURL(s string) bool {
	if strings.TrimSpace(s) != s || s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func checkType(errs []FieldError, t Type) []FieldError {
	if t == "" {
		return append(errs, FieldError{Field: "type", Message: "required"})
	}
	if !t.Known() {
		return append(errs, FieldError{Field: "type", Message: "unknown content type " + string(t)})
	}
	return errs
}

func checkURL(errs []FieldError, u string) []FieldError {
	if u == "" {
		return append(errs, FieldError{Field: "url", Message: "required"})
	}
	if !ValidURL(u) {
		return append(errs, FieldError{Field: "url", Message: "invalid url"})
	}
	return errs
}

func checkTitle(errs []FieldError, title string) []FieldError {
	if strings.TrimSpace(title) == "" {
		return append(errs, FieldError{Field: "title", Message: "required"})
	}
	return errs
}
