package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"interviewhub/internal/apperr"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Messages for top-level fields, keyed by json name or "name.tag" when one
// rule needs its own wording. Nested fields fall back to a generated message
// built from the field path.
var fieldMessages = map[string]string{
	"company_id":        "Company ID is required",
	"position":          "Position is required",
	"interview_date":    "Valid interview date is required",
	"result":            "Valid result is required",
	"overall_rating":    "Rating must be between 1 and 5",
	"difficulty_level":  "Difficulty must be between 1 and 5",
	"interview_process": "Interview process description is required",
	"advice":            "Advice is required",
	"experience_level":  "Experience level must be fresher or experienced",
	"experience_years":  "Experience years must be between 0 and 60",
	"vote_type":         "Valid vote type is required",
	"content":           "Comment content is required",
	"content.max":       "Comment must be at most 2000 characters",
	"name.max":          "Company name must be at most 100 characters",
	"name":              "Company name is required",
}

var registerOnce sync.Once

func init() {
	engine()
}

func engine() *validator.Validate {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return v
}

// validate runs the same binding rules gin applies in ShouldBindJSON and
// turns the first failure into a validation error.
func validate(obj interface{}) error {
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return ValidationError(err)
	}
	return nil
}

// ValidationError converts a binding or validator error into an
// *apperr.Error carrying a single client-facing message.
func ValidationError(err error) *apperr.Error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation(fieldErrorMessage(verrs[0]))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return apperr.Validation("Invalid request body")
		}
		return apperr.Validation(fmt.Sprintf("Invalid value for %s", typeErr.Field))
	case errors.As(err, &syntaxErr):
		return apperr.Validation("Malformed JSON body")
	}
	return apperr.Validation("Invalid request body")
}

func fieldErrorMessage(fe validator.FieldError) string {
	path := fieldPath(fe.Namespace())
	if msg, ok := fieldMessages[path+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[path]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", path, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", path, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", path, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", path, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", path)
	}
	return fmt.Sprintf("%s is invalid", path)
}

// fieldPath drops the root struct name: "CreateExperienceInput.rounds[0].round_type"
// becomes "rounds[0].round_type".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// ID accepts both JSON numbers and numeric strings; the web form posts the
// selected company id as a string.
type ID uint

func (id *ID) UnmarshalJSON(data []byte) error {
	s, ok := numericText(data)
	if !ok {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + s, Type: reflect.TypeOf(*id)}
	}
	*id = ID(v)
	return nil
}

// Int is an integer field that also accepts numeric strings, as posted by
// range inputs on the web form.
type Int int

func (n *Int) UnmarshalJSON(data []byte) error {
	s, ok := numericText(data)
	if !ok {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + s, Type: reflect.TypeOf(*n)}
	}
	*n = Int(v)
	return nil
}

// numericText unquotes a JSON number or string. ok is false for null and
// blank strings.
func numericText(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", false
	}
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	return s, s != ""
}
