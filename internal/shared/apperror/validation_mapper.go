package apperror

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns gin binding errors into a per-field validation
// AppError, one message per offending field.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(errs))
		for _, e := range errs {
			if _, seen := fields[e.Field()]; seen {
				continue
			}
			switch e.Tag() {
			case "required":
				fields[e.Field()] = formatFieldName(e.Field()) + " is required"
			default:
				fields[e.Field()] = formatFieldName(e.Field()) + " is invalid"
			}
		}
		return NewValidation(fields)
	}

	return ErrInvalidInput
}
