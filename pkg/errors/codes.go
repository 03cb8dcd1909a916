package errors

import (
	"net/http"
)

// ErrorCode is a string identifier for a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"
)

// Analysis error codes. These are the four failure categories the analysis
// core is allowed to surface; everything else maps onto a COMMON_* code.
const (
	// ErrCodeInvalidInput marks malformed or too-short document text.
	// Not retryable; the caller must fix the input.
	ErrCodeInvalidInput ErrorCode = "LEX_001"

	// ErrCodeNotComparable marks a comparison request against a version
	// that has not finished segmentation, or a version compared to itself.
	ErrCodeNotComparable ErrorCode = "LEX_002"

	// ErrCodeDependencyUnavailable marks an embedding-service or
	// corpus-index failure. Retryable with backoff.
	ErrCodeDependencyUnavailable ErrorCode = "LEX_003"

	// ErrCodeIntegrityViolation marks invariant breakage such as an
	// embedding-count mismatch or page_from > page_to. Fatal, never coerced.
	ErrCodeIntegrityViolation ErrorCode = "LEX_004"
)

// Document / segmentation module error codes.
const (
	ErrCodeDocumentNotFound        ErrorCode = "DOC_001"
	ErrCodeVersionNotFound         ErrorCode = "DOC_002"
	ErrCodeVersionNotProcessed     ErrorCode = "DOC_003"
	ErrCodeVersionAlreadySegmented ErrorCode = "DOC_004"
	ErrCodeClauseNotFound          ErrorCode = "DOC_005"
	ErrCodeStatusTransition        ErrorCode = "DOC_006"
)

// Comparison module error codes.
const (
	ErrCodeComparisonFailed   ErrorCode = "CMP_001"
	ErrCodeComparisonNotFound ErrorCode = "CMP_002"
)

// Conflict-scan module error codes.
const (
	ErrCodeConflictScanFailed   ErrorCode = "CFL_001"
	ErrCodeConflictScanNotFound ErrorCode = "CFL_002"
	ErrCodeThresholdInvalid     ErrorCode = "CFL_003"
)

// Aliases kept short for call-site readability.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes for the API layer.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeNotComparable:         http.StatusConflict,
	ErrCodeDependencyUnavailable: http.StatusServiceUnavailable,
	ErrCodeIntegrityViolation:    http.StatusInternalServerError,

	ErrCodeDocumentNotFound:        http.StatusNotFound,
	ErrCodeVersionNotFound:         http.StatusNotFound,
	ErrCodeVersionNotProcessed:     http.StatusConflict,
	ErrCodeVersionAlreadySegmented: http.StatusConflict,
	ErrCodeClauseNotFound:          http.StatusNotFound,
	ErrCodeStatusTransition:        http.StatusConflict,

	ErrCodeComparisonFailed:   http.StatusInternalServerError,
	ErrCodeComparisonNotFound: http.StatusNotFound,

	ErrCodeConflictScanFailed:   http.StatusInternalServerError,
	ErrCodeConflictScanNotFound: http.StatusNotFound,
	ErrCodeThresholdInvalid:     http.StatusBadRequest,
}

// HTTPStatus returns the HTTP status for a code, defaulting to 500.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := ErrorCodeHTTPStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// retryableCodes lists codes for which a caller may retry the same request
// after waiting: NotComparable resolves when segmentation finishes,
// DependencyUnavailable when the external service recovers.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeNotComparable:         true,
	ErrCodeDependencyUnavailable: true,
	ErrCodeServiceUnavailable:    true,
	ErrCodeTimeout:               true,
	ErrCodeVersionNotProcessed:   true,
}

// IsRetryableCode reports whether the code alone marks a retryable failure.
func IsRetryableCode(c ErrorCode) bool {
	return retryableCodes[c]
}
