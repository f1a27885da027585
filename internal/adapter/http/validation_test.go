package http

import (
	"errors"
	"strings"
	"testing"
)

type hexProbe struct {
	Addr string `validate:"required,hex64"`
	Sig  string `validate:"omitempty,hex128"`
}

func TestValidator_HexTags(t *testing.T) {
	v := NewValidator()

	good := hexProbe{Addr: strings.Repeat("a", 64), Sig: strings.Repeat("b", 128)}
	if err := v.Validate(&good); err != nil {
		t.Fatalf("valid probe rejected: %v", err)
	}

	bad := []hexProbe{
		{Addr: strings.Repeat("a", 63)},
		{Addr: strings.Repeat("a", 65)},
		{Addr: strings.Repeat("A", 64)}, // uppercase is not canonical
		{Addr: strings.Repeat("g", 64)},
		{Addr: strings.Repeat("a", 64), Sig: strings.Repeat("b", 127)},
		{Addr: strings.Repeat("a", 64), Sig: strings.Repeat("z", 128)},
	}
	for i, probe := range bad {
		if err := v.Validate(&probe); err == nil {
			t.Errorf("case %d: malformed probe accepted: %+v", i, probe)
		}
	}
}

func TestToFieldErrors_Messages(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&hexProbe{Addr: "nope"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	fields := ToFieldErrors(err)
	if !containsFieldMsg(fields, "Addr", "64-char") {
		t.Fatalf("missing hex64 message: %+v", fields)
	}

	err = v.Validate(&hexProbe{})
	fields = ToFieldErrors(err)
	if !containsFieldMsg(fields, "Addr", "required") {
		t.Fatalf("missing required message: %+v", fields)
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fields := ToFieldErrors(errors.New("kaboom"))
	if len(fields) != 1 || fields[0].Field != "_" || fields[0].Message != "kaboom" {
		t.Fatalf("fallback mapping broken: %+v", fields)
	}
}
