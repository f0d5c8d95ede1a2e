package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator. Field names in its errors
// are config keys.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if key := fld.Tag.Get("config"); key != "" {
				return key
			}
			return fld.Tag.Get("toml")
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	return convertValidationError(validatorInstance().Struct(c))
}

// convertValidationError turns validator errors into one readable error per
// config key.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	key := fe.Field()
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "gtefield", "ltefield":
		return fmt.Sprintf("%s must lie between zoom.min and zoom.max", key)
	}
	return fmt.Sprintf("%s failed validation for tag '%s'", key, fe.Tag())
}
