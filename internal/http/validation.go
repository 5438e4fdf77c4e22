package http

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validatorSetup sync.Once

// configureValidator makes validator report fields by their json name and
// adds the notblank rule.
func configureValidator() {
	validatorSetup.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// messenger is implemented by request bodies; it maps json field names to
// the message returned when that field fails validation.
type messenger interface {
	fieldMessages() map[string]string
}

// bindJSON decodes and validates the body into req, turning every failure
// into a *validationError.
func bindJSON(c *gin.Context, req messenger) error {
	err := c.ShouldBindBodyWith(req, binding.JSON)
	if err == nil {
		return nil
	}
	return toValidationError(err, req.fieldMessages())
}

func toValidationError(err error, messages map[string]string) error {
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &fieldErrs):
		out := &validationError{}
		seen := make(map[string]struct{}, len(fieldErrs))
		for _, fe := range fieldErrs {
			field := fe.Field()
			if _, dup := seen[field]; dup {
				continue
			}
			seen[field] = struct{}{}
			out.fields = append(out.fields, FieldError{Field: field, Message: messageFor(messages, field)})
		}
		return out
	case errors.As(err, &typeErr):
		field := typeErr.Field
		return invalidField(field, messageFor(messages, field))
	case errors.Is(err, io.EOF):
		return invalidField("body", "Request body is required.")
	default:
		return invalidField("body", "Request body must be valid JSON.")
	}
}

func messageFor(messages map[string]string, field string) string {
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "Invalid value."
}

// rejectFields fails for every key of the body that callers may not set.
func rejectFields(c *gin.Context, forbidden map[string]string) error {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		return toValidationError(err, nil)
	}

	out := &validationError{}
	for _, key := range slices.Sorted(maps.Keys(forbidden)) {
		if _, present := raw[key]; present {
			out.fields = append(out.fields, FieldError{Field: key, Message: forbidden[key]})
		}
	}
	if len(out.fields) > 0 {
		return out
	}
	return nil
}
