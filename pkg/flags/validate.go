package flags

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

var (
	validate = validator.New()

	repositoryPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

func init() {
	// Report failures under the command line flag name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})

	err := validate.RegisterValidation("repository", func(fl validator.FieldLevel) bool {
		return repositoryPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register repository validation: %v", err))
	}
}

// ValidationError lists every invalid flag.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// Validate checks each flag struct and returns a config error describing all failures.
func Validate(structs ...interface{}) error {
	var messages []string
	for _, s := range structs {
		err := validate.Struct(s)
		if err == nil {
			continue
		}
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return v1.NewError(v1.ErrorKindConfig, "", err)
		}
		for _, fe := range fieldErrors {
			messages = append(messages, message(fe))
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return v1.NewError(v1.ErrorKindConfig, "", &ValidationError{Errors: messages})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("--%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("--%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("--%s must be at least %s", fe.Field(), fe.Param())
	case "repository":
		return fmt.Sprintf("--repo %q is not in owner/name form", fe.Value())
	case "email":
		return fmt.Sprintf("--%s %q is not a valid email address", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("--%s failed on the '%s' tag", fe.Field(), fe.Tag())
	}
}
