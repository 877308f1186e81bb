package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeValidation      ErrorCode = "COMMON_010"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodePayloadTooLarge ErrorCode = "COMMON_013"
	ErrCodeRateLimited     ErrorCode = "COMMON_014"
	ErrCodeNotImplemented  ErrorCode = "COMMON_016"
	ErrCodeUnknown         ErrorCode = "COMMON_000"
)

// Hydrogen-bond synthesis Error Codes
const (
	ErrCodeEmptySelection         ErrorCode = "HB_001"
	ErrCodeIncompleteResidueSet   ErrorCode = "HB_002"
	ErrCodeMissingRestraintWeight ErrorCode = "HB_003"
	ErrCodeAmbiguousAnchor        ErrorCode = "HB_004"
	ErrCodeInvalidAnnotation      ErrorCode = "HB_005"
)

// Selection language Error Codes
const (
	ErrCodeSelectionSyntax ErrorCode = "SEL_001"
	ErrCodeSelectionEval   ErrorCode = "SEL_002"
)

// Structure input Error Codes
const (
	ErrCodeStructureParse ErrorCode = "PDB_001"
	ErrCodeStructureEmpty ErrorCode = "PDB_002"
	ErrCodeMultipleModels ErrorCode = "PDB_003"
)

// Short aliases used at call sites.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrCodeUnknown
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeValidation   = ErrCodeValidation
	CodeTooLarge     = ErrCodePayloadTooLarge
	CodeRateLimited  = ErrCodeRateLimited

	CodeEmptySelection         = ErrCodeEmptySelection
	CodeIncompleteResidueSet   = ErrCodeIncompleteResidueSet
	CodeMissingRestraintWeight = ErrCodeMissingRestraintWeight
	CodeAmbiguousAnchor        = ErrCodeAmbiguousAnchor
	CodeInvalidAnnotation      = ErrCodeInvalidAnnotation
	CodeSelectionSyntax        = ErrCodeSelectionSyntax
	CodeSelectionEval          = ErrCodeSelectionEval
	CodeStructureParse         = ErrCodeStructureParse
	CodeStructureEmpty         = ErrCodeStructureEmpty
	CodeMultipleModels         = ErrCodeMultipleModels
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeValidation:      http.StatusUnprocessableEntity,
	ErrCodeSerialization:   http.StatusInternalServerError,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeNotImplemented:  http.StatusNotImplemented,

	ErrCodeEmptySelection:         http.StatusUnprocessableEntity,
	ErrCodeIncompleteResidueSet:   http.StatusUnprocessableEntity,
	ErrCodeMissingRestraintWeight: http.StatusBadRequest,
	ErrCodeAmbiguousAnchor:        http.StatusUnprocessableEntity,
	ErrCodeInvalidAnnotation:      http.StatusBadRequest,

	ErrCodeSelectionSyntax: http.StatusBadRequest,
	ErrCodeSelectionEval:   http.StatusBadRequest,

	ErrCodeStructureParse: http.StatusBadRequest,
	ErrCodeStructureEmpty: http.StatusBadRequest,
	ErrCodeMultipleModels: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "internal error",
	ErrCodeBadRequest:      "bad request",
	ErrCodeNotFound:        "resource not found",
	ErrCodeValidation:      "validation failed",
	ErrCodeSerialization:   "serialization failed",
	ErrCodePayloadTooLarge: "request body too large",
	ErrCodeRateLimited:     "rate limit exceeded",
	ErrCodeNotImplemented:  "not implemented",

	ErrCodeEmptySelection:         "selection matched no acceptor atoms",
	ErrCodeIncompleteResidueSet:   "incomplete non-proline residues",
	ErrCodeMissingRestraintWeight: "missing restraint sigma or slack",
	ErrCodeAmbiguousAnchor:        "bonding anchor must select exactly one atom",
	ErrCodeInvalidAnnotation:      "invalid secondary-structure annotation",

	ErrCodeSelectionSyntax: "invalid atom selection syntax",
	ErrCodeSelectionEval:   "atom selection could not be evaluated",

	ErrCodeStructureParse: "failed to parse structure",
	ErrCodeStructureEmpty: "structure contains no atoms",
	ErrCodeMultipleModels: "multiple models not supported",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
