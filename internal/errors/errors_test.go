package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewKnownCode(t *testing.T) {
	err := New(CodeMalformedCursor)
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %v, want runtime", err.Category)
	}
	if !strings.HasPrefix(err.Error(), "L001: Malformed cursor") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("L999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestDetailInMessage(t *testing.T) {
	err := New(CodeDuplicateKey).WithDetailf("key %q", "a")
	if got := err.Error(); got != `L002: Duplicate key in keyed list: key "a"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeWriteAfterRead))
	if !Is(err, CodeWriteAfterRead) {
		t.Error("expected Is to match wrapped code")
	}
	if Is(err, CodeDuplicateKey) {
		t.Error("expected Is not to match a different code")
	}
	if Is("not an error", CodeWriteAfterRead) {
		t.Error("non-error values never match")
	}
	if !stderrors.Is(err, New(CodeWriteAfterRead)) {
		t.Error("expected errors.Is to compare codes")
	}
}

func TestFromPanic(t *testing.T) {
	if FromPanic(nil) != nil {
		t.Error("nil panic should convert to nil")
	}
	orig := New(CodeMissingBranch)
	if FromPanic(orig) != orig {
		t.Error("error panics keep identity")
	}
	if got := FromPanic("boom").Error(); got != "panic: boom" {
		t.Errorf("FromPanic(string) = %q", got)
	}
}

func TestFormatWithoutColors(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New(CodeCascadeExceeded).WithDetail("12 batches").Format()
	for _, want := range []string{"ERROR L008:", "12 batches", "Hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, fmt.Errorf("settle: %w", New(CodeCascadeExceeded)))
	if !strings.HasPrefix(b.String(), "ERROR L008:") {
		t.Errorf("Fprint(coded) = %q", b.String())
	}

	b.Reset()
	Fprint(&b, stderrors.New("plain"))
	if b.String() != "Error: plain\n" {
		t.Errorf("Fprint(plain) = %q", b.String())
	}
}

func TestAllCodesHaveTemplates(t *testing.T) {
	for _, code := range GetAllCodes() {
		tpl, ok := GetTemplate(code)
		if !ok || tpl.Message == "" {
			t.Errorf("code %s has no message", code)
		}
	}
}
