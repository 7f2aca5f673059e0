package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		publicMsg string
		retryable bool
		fatal     bool
	}{
		{code: CodeValidation, publicMsg: "validation failed", fatal: true},
		{code: CodeNetwork, publicMsg: "service unreachable", retryable: true, fatal: true},
		{code: CodeProductNotFound, publicMsg: "product not found", fatal: true},
		{code: CodeInvalidCoupon, publicMsg: "coupon is not valid", fatal: true},
		{code: CodePersistence, publicMsg: "local storage unavailable", retryable: true},
		{code: CodeDataIntegrity, publicMsg: "cart data is inconsistent"},
		{code: CodeInternal, publicMsg: "internal error", retryable: true, fatal: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.Fatal != tt.fatal {
			t.Fatalf("code %s expected fatal %v got %v", tt.code, tt.fatal, meta.Fatal)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal metadata, got %+v", meta)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing quantity")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing quantity" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}
	if base.Error() != "VALIDATION_ERROR: missing quantity" {
		t.Fatalf("unexpected error string %q", base.Error())
	}

	base.WithDetails(map[string]any{"field": "quantity"})
	if base.Details() == nil {
		t.Fatal("expected details to be attached")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection reset")
	wrapped := Wrap(CodeNetwork, cause, "fetch cart")

	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to match the cause")
	}
	if !wrapped.Retryable() {
		t.Fatal("network failures should be retryable")
	}

	chained := fmt.Errorf("outer: %w", wrapped)
	if typed := As(chained); typed == nil || typed.Code() != CodeNetwork {
		t.Fatalf("expected typed error through the chain, got %v", chained)
	}
	if !HasCode(chained, CodeNetwork) {
		t.Fatal("HasCode should see through wrapping")
	}
}

func TestWrapNilCause(t *testing.T) {
	wrapped := Wrap(CodeInternal, nil, "no cause")
	if wrapped.Unwrap() != nil {
		t.Fatal("expected nil cause")
	}
}
