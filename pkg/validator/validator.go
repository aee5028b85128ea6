package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LocationBody and friends name where a violated value came from.
const (
	LocationBody   = "body"
	LocationParams = "params"
	LocationFile   = "file"
)

// intPattern accepts an optional sign followed by decimal digits. Leading
// zeros are allowed, so "007" is 7.
var intPattern = regexp.MustCompile(`^[-+]?[0-9]+$`)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("isint", isInt); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("intrange", intRange); err != nil {
		panic(err)
	}
	return v
}

// fieldName reports the wire name of a struct field: its form tag, then its
// json tag, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// IsInt reports whether s is a base-10 integer literal.
func IsInt(s string) bool {
	return intPattern.MatchString(s)
}

func isInt(fl validator.FieldLevel) bool {
	return IsInt(fl.Field().String())
}

// intRange validates an integer literal within inclusive bounds: `intrange=0 5`.
func intRange(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !IsInt(s) {
		return false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false
	}
	bounds := strings.Fields(fl.Param())
	if len(bounds) != 2 {
		return false
	}
	lo, errLo := strconv.ParseInt(bounds[0], 10, 64)
	hi, errHi := strconv.ParseInt(bounds[1], 10, 64)
	if errLo != nil || errHi != nil {
		return false
	}
	return n >= lo && n <= hi
}

// Violation is one failed rule on one input field.
type Violation struct {
	Value    any    `json:"value"`
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// ValidationError carries every violation found in a request, in field order.
type ValidationError struct {
	Violations []Violation
}

// New builds a ValidationError from explicit violations.
func New(violations ...Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Param, v.Msg))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns a map of field names to messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		fields[v.Param] = v.Msg
	}
	return fields
}

// Validate runs the `validate` tags of s. Each violation takes its message
// from the field's `msg` tag and its location from the `location` tag
// (default body).
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := &ValidationError{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		v := Violation{
			Value:    fe.Value(),
			Msg:      msgForTag(fe),
			Param:    fe.Field(),
			Location: LocationBody,
		}
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if m := sf.Tag.Get("msg"); m != "" {
				v.Msg = m
			}
			if loc := sf.Tag.Get("location"); loc != "" {
				v.Location = loc
			}
		}
		out.Violations = append(out.Violations, v)
	}
	return out
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "isint":
		return "must be an integer"
	case "intrange":
		bounds := strings.Fields(fe.Param())
		if len(bounds) == 2 {
			return fmt.Sprintf("must be an integer between %s and %s", bounds[0], bounds[1])
		}
		return "must be an integer in range"
	default:
		return "Invalid value"
	}
}
