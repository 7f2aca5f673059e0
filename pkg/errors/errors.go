package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNetwork         Code = "NETWORK_FAILURE"
	CodeProductNotFound Code = "PRODUCT_NOT_FOUND"
	CodeInvalidCoupon   Code = "INVALID_COUPON"
	CodePersistence     Code = "PERSISTENCE_FAILURE"
	CodeDataIntegrity   Code = "DATA_INTEGRITY"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Metadata describes how callers may react to a given code.
type Metadata struct {
	Retryable     bool
	Fatal         bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:     false,
		Fatal:         true,
		PublicMessage: "validation failed",
	},
	CodeNetwork: {
		Retryable:     true,
		Fatal:         true,
		PublicMessage: "service unreachable",
	},
	CodeProductNotFound: {
		Retryable:     false,
		Fatal:         true,
		PublicMessage: "product not found",
	},
	CodeInvalidCoupon: {
		Retryable:     false,
		Fatal:         true,
		PublicMessage: "coupon is not valid",
	},
	CodePersistence: {
		Retryable:     true,
		Fatal:         false,
		PublicMessage: "local storage unavailable",
	},
	CodeDataIntegrity: {
		Retryable:     false,
		Fatal:         false,
		PublicMessage: "cart data is inconsistent",
	},
	CodeInternal: {
		Retryable:     true,
		Fatal:         true,
		PublicMessage: "internal error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// Retryable reports whether the caller may safely re-issue the operation.
func (e *Error) Retryable() bool {
	return MetadataFor(e.Code()).Retryable
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
