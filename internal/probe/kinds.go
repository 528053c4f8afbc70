package probe

import (
	"context"
	"errors"
	"net/http"
)

// Error kind names, matching the Anthropic client error hierarchy so the
// categories read the same as in the API documentation.
const (
	KindAuthentication      = "AuthenticationError"
	KindBadRequest          = "BadRequestError"
	KindPermissionDenied    = "PermissionDeniedError"
	KindNotFound            = "NotFoundError"
	KindConflict            = "ConflictError"
	KindRequestTooLarge     = "RequestTooLargeError"
	KindUnprocessableEntity = "UnprocessableEntityError"
	KindRateLimit           = "RateLimitError"
	KindOverloaded          = "OverloadedError"
	KindInternalServer      = "InternalServerError"
	KindAPIStatus           = "APIStatusError"
	KindTimeout             = "APITimeoutError"
	KindCancelled           = "CancelledError"
	KindConnection          = "APIConnectionError"
	KindEmptyContent        = "EmptyContentError"
	KindPanic               = "PanicError"
	KindUnknown             = "UnknownError"
)

const statusOverloaded = 529

// ErrorKind names the category of err. Every error maps to exactly one
// name; anything that is not an API status error or a context error is a
// connection error.
func ErrorKind(err error) string {
	if code := StatusCode(err); code != 0 {
		return kindForStatus(code)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindConnection
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindPermissionDenied
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusRequestEntityTooLarge:
		return KindRequestTooLarge
	case http.StatusUnprocessableEntity:
		return KindUnprocessableEntity
	case http.StatusTooManyRequests:
		return KindRateLimit
	case statusOverloaded:
		return KindOverloaded
	}
	if code >= http.StatusInternalServerError {
		return KindInternalServer
	}
	return KindAPIStatus
}
