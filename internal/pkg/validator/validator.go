package validator

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tactical-map/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate checks s and converts failures into errors.ErrInvalidRequest
// with a field -> rule map in Details.
func Validate(s interface{}) error {
	return ValidateAs(s, errors.ErrInvalidRequest)
}

// ValidateAs is Validate with a caller-chosen sentinel.
func ValidateAs(s interface{}, sentinel *errors.AppError) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return sentinel.WithMessage(err.Error())
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return sentinel.WithDetails(details)
}
