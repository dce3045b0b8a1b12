package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecordID signals a retrieve id that is not "<databaseId>,<accessionNumber>".
	ErrInvalidRecordID = errors.New("invalid record id")
	// ErrTransport signals a network failure or an unreadable non-2xx response.
	ErrTransport = errors.New("transport failure")
	// ErrDecode signals an empty or non-JSON response body.
	ErrDecode = errors.New("response decode failure")
	// ErrUnexpectedType signals a response value of the wrong shape.
	ErrUnexpectedType = errors.New("unexpected response type")
	// ErrAPI signals a structured error payload returned by the remote API.
	ErrAPI = errors.New("api error")
)

// Remote API error codes with client-side meaning.
const (
	CodeAuthTokenInvalid    = 104
	CodeAuthTokenMissing    = 107
	CodeSessionTokenMissing = 108
	CodeSessionTokenInvalid = 109
)

// ErrorKind classifies an APIError for retry decisions.
type ErrorKind string

// Error kinds.
const (
	KindSessionInvalid ErrorKind = "session_invalid"
	KindSessionMissing ErrorKind = "session_missing"
	KindAuthInvalid    ErrorKind = "auth_invalid"
	KindOther          ErrorKind = "other"
)

// APIError is a recognized error payload from the remote service.
// Both the auth service shape (ErrorCode/Reason/AdditionalDetail) and the
// search service shape (ErrorNumber/ErrorDescription/DetailedErrorDescription)
// normalize to these fields.
type APIError struct {
	Code                int
	Description         string
	DetailedDescription string
	HTTPStatus          int
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d: %s", e.Code, e.Description)
	if e.DetailedDescription != "" {
		msg += " (" + e.DetailedDescription + ")"
	}
	return msg
}

func (e *APIError) Unwrap() error { return ErrAPI }

// Kind returns the retry classification of the error code.
func (e *APIError) Kind() ErrorKind {
	switch e.Code {
	case CodeSessionTokenInvalid:
		return KindSessionInvalid
	case CodeSessionTokenMissing:
		return KindSessionMissing
	case CodeAuthTokenInvalid, CodeAuthTokenMissing:
		return KindAuthInvalid
	default:
		return KindOther
	}
}

// IsSessionInvalid reports whether err carries a session-token-invalid APIError.
func IsSessionInvalid(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind() == KindSessionInvalid
}

// BackendError is the single error surface of the backend. It carries the
// message and code of the originating failure plus the original cause.
type BackendError struct {
	Message string
	Code    int
	Err     error
}

func (e *BackendError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("backend: %s (code %d)", e.Message, e.Code)
	}
	return "backend: " + e.Message
}

func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError wraps err. The code is taken from an APIError in the chain.
// An error that already is a BackendError is returned unchanged.
func NewBackendError(err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	code := 0
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}
	return &BackendError{Message: err.Error(), Code: code, Err: err}
}
