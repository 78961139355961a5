package fields

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var hexRGB = regexp.MustCompile(`^#([0-9A-Fa-f]{3}){1,2}$`)

var (
	schemaOnce     sync.Once
	schemaValidate *validator.Validate
)

func configValidator() *validator.Validate {
	schemaOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("hexrgb", func(fl validator.FieldLevel) bool {
			return hexRGB.MatchString(fl.Field().String())
		})
		schemaValidate = v
	})
	return schemaValidate
}

// checkSchema runs the struct-tag rules of cfg and converts failures into a
// ConfigError. A nil return means cfg is acceptable.
func checkSchema(tag Type, cfg any) error {
	err := configValidator().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigError{Type: tag, Issues: []Issue{{Message: err.Error()}}}
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{Property: fe.Field(), Message: issueMessage(fe)})
	}
	return &ConfigError{Type: tag, Issues: issues}
}

func issueMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(fe.Param(), "'", ""))
	case "hexrgb":
		return "must be a hex colour such as #000000"
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
