package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestAddressValidation(t *testing.T) {
	type P struct {
		Borrower string `validate:"address"`
	}
	cv := NewValidator()

	for _, s := range []string{
		strings.Repeat("b", 32),
		"0x" + strings.Repeat("ab", 20),
		"lender-1",
	} {
		if err := cv.Validate(P{Borrower: s}); err != nil {
			t.Fatalf("expected valid address %q, got err: %v", s, err)
		}
	}

	for _, s := range []string{
		"",                      // empty
		"has space",             // whitespace
		"-dash-first",           // must start alphanumeric
		strings.Repeat("a", 67), // too long
		"semi;colon",            // bad char
	} {
		err := cv.Validate(P{Borrower: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "Borrower", "must be an address") {
			t.Fatalf("expected address message for %q, got: %+v", s, fe)
		}
	}
}

func TestValuationValidation(t *testing.T) {
	type P struct {
		Hash string `validate:"valuation"`
	}
	cv := NewValidator()

	for _, s := range []string{
		strings.Repeat("a", 64),
		"0x" + strings.Repeat("F", 64),
	} {
		if err := cv.Validate(P{Hash: s}); err != nil {
			t.Fatalf("expected valuation OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "0x", "deadbeef", strings.Repeat("g", 64)} {
		err := cv.Validate(P{Hash: s})
		if err == nil {
			t.Fatalf("expected valuation error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Hash", "hex digest") {
			t.Fatalf("expected 'hex digest' for %q, got %+v", s, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string `validate:"required"`
		Amount uint64 `validate:"gt=0"`
		Min    int    `validate:"gte=10"`
		Max    int    `validate:"lte=5"`
		Ref    string `validate:"max=3"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{Name: "", Amount: 0, Min: 9, Max: 6, Ref: "abcd"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Amount", "greater than 0") {
		t.Fatalf("missing gt message for Amount: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
	if !containsFieldMsg(fe, "Ref", "at most 3") {
		t.Fatalf("missing max message for Ref: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
