package edsapi

import "github.com/kailas-cloud/edsapi/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRecordID = domain.ErrInvalidRecordID
	ErrTransport       = domain.ErrTransport
	ErrDecode          = domain.ErrDecode
	ErrUnexpectedType  = domain.ErrUnexpectedType
	ErrAPI             = domain.ErrAPI
)

// BackendError is returned by every Search, Retrieve and Info failure.
type BackendError = domain.BackendError

// APIError is a structured error payload from the remote service.
type APIError = domain.APIError

// Remote error codes.
const (
	CodeAuthTokenInvalid    = domain.CodeAuthTokenInvalid
	CodeAuthTokenMissing    = domain.CodeAuthTokenMissing
	CodeSessionTokenMissing = domain.CodeSessionTokenMissing
	CodeSessionTokenInvalid = domain.CodeSessionTokenInvalid
)
