package errs

import (
	"net/http"
)

// Machine-readable codes of the dispatcher error taxonomy.
const (
	CodeUnknownOperation  = "UNKNOWN_OPERATION"
	CodeInvalidPayload    = "INVALID_PAYLOAD"
	CodeStorageError      = "STORAGE_ERROR"
	CodePoolUninitialized = "POOL_UNINITIALIZED"
)

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrUnknownOperation  = &HTTPError{Code: CodeUnknownOperation}
	ErrInvalidPayload    = &HTTPError{Code: CodeInvalidPayload}
	ErrStorage           = &HTTPError{Code: CodeStorageError}
	ErrPoolUninitialized = &HTTPError{Code: CodePoolUninitialized}
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
//
// This is designed for “you sent garbage” cases.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	// Caller-supplied codes are used verbatim.
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Detail:   message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Detail:   message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:   MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Detail: message,
		Status: http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// Note:
//   - message is the generic status text, not the real internal error message.
//   - Override is false: generic 500s are never rewritten.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Detail:   http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewUnknownOperationError reports a dispatch request naming no known operation.
func NewUnknownOperationError(function string) *HTTPError {
	code := CodeUnknownOperation
	return NewBadRequestError("Unknown function: "+function, true, &code, nil)
}

// NewInvalidPayloadError reports a payload that failed the per-operation shape check.
// No store access happens once this error is produced.
func NewInvalidPayloadError(message string, fieldErrors []FieldError) *HTTPError {
	code := CodeInvalidPayload
	return NewBadRequestError(message, true, &code, fieldErrors)
}

// NewStorageError creates a 500 carrying the store's diagnostic text.
//
// Unlike NewInternalServerError the detail is surfaced to the client verbatim.
func NewStorageError(diagnostic string) *HTTPError {
	return &HTTPError{
		Code:     CodeStorageError,
		Detail:   "Database error: " + diagnostic,
		Status:   http.StatusInternalServerError,
		Override: true,
	}
}

// NewPoolUninitializedError reports an operation attempted before the connection pool is ready.
func NewPoolUninitializedError() *HTTPError {
	return &HTTPError{
		Code:   CodePoolUninitialized,
		Detail: "Database connection pool is not initialized",
		Status: http.StatusServiceUnavailable,
	}
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
//
// This is a helper so you can do:
//
//	return errs.ValidationError(err)
//
// and clients get consistent error structure.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil)
}
