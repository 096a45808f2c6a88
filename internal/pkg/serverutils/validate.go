package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"video-labeling-be/internal/pkg/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Violations name json wire fields, not Go struct fields, matching how
	// the document schema errors read.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest checks a request DTO against its validator tags, reporting
// the first failed field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: missing required field: %s", apperrors.ErrValidation, fe.Field())
		}
		return fmt.Errorf("%w: field %s violates rule %s", apperrors.ErrValidation, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}
