// ABOUTME: Form-level validation for CRM entities
// ABOUTME: Collects every violated field into a single ValidationError
package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation matches any *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// ValidationError lists every violated field with a human message.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string {
	fields := e.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + e.Violations[f]
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Fields returns the violated field keys sorted.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their JSON key so messages line up with field maps.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
			return IsValidStage(fl.Field().String())
		})

		validate = v
	})
	return validate
}

// Validate checks an entity's declared constraints. It returns a
// *ValidationError naming every violated field, or nil.
func Validate(entity any) error {
	err := instance().Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := violations[fe.Field()]; seen {
			continue
		}
		violations[fe.Field()] = message(fe)
	}
	return &ValidationError{Violations: violations}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "is required"
	case "simpleemail", "phone":
		return "is invalid"
	case "stage":
		return "must be one of " + strings.Join(StageKeys(), ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag()
	}
}
