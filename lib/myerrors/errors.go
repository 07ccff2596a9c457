package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

const GenericUserMessage = "Something went wrong, please try again"

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
}

type userMessager interface {
	UserMessage() string
}

type httpError struct {
	httpCode    int
	err         error
	userMessage string
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

func (e httpError) UserMessage() string {
	return e.userMessage
}

func newError(httpCode int, err error) *httpError {
	return &httpError{
		httpCode: httpCode,
		err:      err,
	}
}

func NewInvalidInputError(err error) *httpError {
	return newError(http.StatusBadRequest, err)
}

func NewInvalidInputErrorf(format string, args ...any) *httpError {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

func NewUnsupportedMediaTypeError(err error) *httpError {
	return newError(http.StatusUnsupportedMediaType, err)
}

func NewNotFoundError(err error) *httpError {
	return newError(http.StatusNotFound, err)
}

func NewAuthenticationError(err error) *httpError {
	return newError(http.StatusForbidden, err)
}

func NewConflictError(err error) *httpError {
	return newError(http.StatusConflict, err)
}

func NewInternalError(err error) *httpError {
	return newError(http.StatusInternalServerError, err)
}

func NewNotImplementedError(err error) *httpError {
	return newError(http.StatusNotImplemented, err)
}

func NewBadGatewayError(err error) *httpError {
	return newError(http.StatusBadGateway, err)
}

func NewUnavailableError(err error) *httpError {
	return newError(http.StatusServiceUnavailable, err)
}

// NewBackendError classifies a failed call to an upstream api. Client errors keep their
// status, everything else becomes a 502. The upstream message is what the user gets to see.
func NewBackendError(upstreamStatus int, upstreamMessage string, err error) *httpError {
	httpCode := http.StatusBadGateway
	if upstreamStatus >= 400 && upstreamStatus < 500 {
		httpCode = upstreamStatus
	}
	e := newError(httpCode, err)
	e.userMessage = upstreamMessage
	return e
}

// WithUserMessage attaches a message that is safe to show to the end-user.
func WithUserMessage(err error, message string) error {
	coder := httpErrorCoder(nil)
	httpCode := http.StatusInternalServerError
	if errors.As(err, &coder) {
		httpCode = coder.GetHTTPErrorCode()
	}
	return &httpError{
		httpCode:    httpCode,
		err:         err,
		userMessage: message,
	}
}

func GetHTTPStatus(err error) int {
	if err != nil {
		var coder httpErrorCoder
		if errors.As(err, &coder) {
			return coder.GetHTTPErrorCode()
		}
	}
	return http.StatusInternalServerError
}

// UserMessage returns the most specific user-facing message available for err.
// Client errors fall back to the error text itself, server errors to a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		if m, ok := e.(userMessager); ok && m.UserMessage() != "" {
			return m.UserMessage()
		}
	}

	var coder *httpError
	if errors.As(err, &coder) && coder.httpCode < http.StatusInternalServerError {
		return coder.err.Error()
	}

	return GenericUserMessage
}
