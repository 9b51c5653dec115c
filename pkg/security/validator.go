package security

import (
	"strings"
	"unicode"
	"unicode/utf8"

	pkgerrors "employee-qbe-service/pkg/errors"
)

// MaxSearchParamLength is the maximum length of a single search parameter.
// It matches the size of the employees string columns.
const MaxSearchParamLength = 100

// ValidateSearchParam trims a free-text search parameter and rejects values
// that are too long, are not valid UTF-8 or contain control characters.
// Any other text is accepted: values only ever reach SQL as bound parameters.
// name is used in the returned ValidationError.
func ValidateSearchParam(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if !utf8.ValidString(value) {
		return "", pkgerrors.NewValidationError(name, "search parameter is not valid UTF-8")
	}

	if utf8.RuneCountInString(value) > MaxSearchParamLength {
		return "", pkgerrors.NewValidationError(name, "search parameter too long")
	}

	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return "", pkgerrors.NewValidationError(name, "search parameter contains control characters")
	}

	return value, nil
}
