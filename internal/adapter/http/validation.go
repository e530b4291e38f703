package http

import (
	"regexp"

	"aura-lend/pkg/id"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse carries the protocol error classification when there is one,
// so clients can tell a stale-state conflict from a bad request.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Kind    string       `json:"kind,omitempty"`
	Code    string       `json:"code,omitempty"`
	Entity  string       `json:"entity,omitempty"`
	ID      uint64       `json:"id,omitempty"`
	Status  string       `json:"status,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// valuation hashes are hex digests, optionally 0x-prefixed
var reValuation = regexp.MustCompile(`^(0x)?[a-fA-F0-9]{16,128}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return id.ValidAddress(fl.Field().String())
	})
	_ = v.RegisterValidation("valuation", func(fl validator.FieldLevel) bool {
		return reValuation.MatchString(fl.Field().String())
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "address":
			out = append(out, FieldError{Field: field, Message: "must be an address of at most 66 characters"})
		case "valuation":
			out = append(out, FieldError{Field: field, Message: "must be a hex digest"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " long"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
