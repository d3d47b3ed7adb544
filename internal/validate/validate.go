// Package validate checks user input before it is turned into records for the
// Scheduling Store. The store trusts its inputs; everything it assumes about
// a record is enforced here.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultRegion is used to parse phone numbers written without a country code.
const DefaultRegion = "US"

// Error reports the first invalid field of an input.
type Error struct {
	Field   string // Human-readable field name, e.g. "Linkedin Profile".
	Message string
}

func (e *Error) Error() string {
	return e.Field + " " + e.Message
}

// Validator validates form input. It is safe for concurrent use.
type Validator struct {
	region string
	v      *validator.Validate
}

// New returns a Validator that parses local phone numbers in region. An empty
// region selects DefaultRegion.
func New(region string) *Validator {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	val := &Validator{region: region, v: v}
	// RegisterValidation only fails for an empty tag or nil func.
	_ = v.RegisterValidation("phone", val.isPhone)
	return val
}

// Region returns the default phone region.
func (val *Validator) Region() string {
	return val.region
}

func (val *Validator) isPhone(fl validator.FieldLevel) bool {
	_, ok := normalizePhone(fl.Field().String(), val.region)
	return ok
}

// normalizePhone parses raw in region and returns it in E.164 form.
func normalizePhone(raw, region string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

// check runs struct validation and maps the first failure to *Error.
func (val *Validator) check(input any) error {
	err := val.v.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return mapFieldError(verrs[0])
}

func mapFieldError(fe validator.FieldError) *Error {
	field := formatFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return &Error{Field: field, Message: "is required"}
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return &Error{Field: field, Message: "needs at least " + fe.Param() + " entry"}
		}
		return &Error{Field: field, Message: "must be at least " + fe.Param()}
	case "url":
		return &Error{Field: field, Message: "must be a valid URL"}
	case "email":
		return &Error{Field: field, Message: "must be a valid email address"}
	case "phone":
		return &Error{Field: field, Message: "must be a valid phone number"}
	default:
		return &Error{Field: field, Message: "is invalid"}
	}
}

// formatFieldName turns "phone_numbers[1]" into "Phone Numbers[1]".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}
