package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate      *validator.Validate
	validatorOnce sync.Once
)

// InitValidator builds the shared validator. Field errors are reported
// under their json names.
func InitValidator() {
	validatorOnce.Do(func() {
		Validate = validator.New()
		Validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// InvalidFields lists the fields a validation error complains about.
func InvalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
