package myerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	myErr := fmt.Errorf("my error")

	testCases := []struct {
		name       string
		in         error
		httpStatus int
		errorText  string
	}{
		{
			name:       "No http error",
			in:         myErr,
			httpStatus: 500,
			errorText:  "my error",
		},
		{
			name:       "Invalid input error",
			in:         NewInvalidInputError(myErr),
			httpStatus: 400,
			errorText:  "status: 400, err: my error",
		},
		{
			name:       "Invalid input errorf",
			in:         NewInvalidInputErrorf("%s: %d", myErr.Error(), 123),
			httpStatus: 400,
			errorText:  "status: 400, err: my error: 123",
		},
		{
			name:       "Authentication error",
			in:         NewAuthenticationError(myErr),
			httpStatus: 403,
			errorText:  "status: 403, err: my error",
		},
		{
			name:       "Not found error",
			in:         NewNotFoundError(myErr),
			httpStatus: 404,
			errorText:  "status: 404, err: my error",
		},
		{
			name:       "Conflict error",
			in:         NewConflictError(myErr),
			httpStatus: 409,
			errorText:  "status: 409, err: my error",
		},
		{
			name:       "Internal error",
			in:         NewInternalError(myErr),
			httpStatus: 500,
			errorText:  "status: 500, err: my error",
		},
		{
			name:       "Bad gateway error",
			in:         NewBadGatewayError(myErr),
			httpStatus: 502,
			errorText:  "status: 502, err: my error",
		},
		{
			name:       "Backend client error keeps status",
			in:         NewBackendError(400, "Cart is empty", myErr),
			httpStatus: 400,
			errorText:  "status: 400, err: my error",
		},
		{
			name:       "Backend server error becomes bad gateway",
			in:         NewBackendError(500, "", myErr),
			httpStatus: 502,
			errorText:  "status: 502, err: my error",
		},
		{
			name:       "Wrapped error",
			in:         fmt.Errorf("placing order: %w", NewConflictError(myErr)),
			httpStatus: 409,
			errorText:  "placing order: status: 409, err: my error",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.httpStatus, GetHTTPStatus(tc.in))
			assert.Equal(t, tc.errorText, tc.in.Error())
		})
	}
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("cart is empty")

	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "cart is empty", UserMessage(NewInvalidInputError(cause)))
	assert.Equal(t, GenericUserMessage, UserMessage(NewInternalError(cause)))
	assert.Equal(t, GenericUserMessage, UserMessage(cause))
	assert.Equal(t, "Out of stock", UserMessage(NewBackendError(502, "Out of stock", cause)))
	assert.Equal(t, "Out of stock", UserMessage(fmt.Errorf("ctx: %w", NewBackendError(502, "Out of stock", cause))))

	withMsg := WithUserMessage(NewBadGatewayError(cause), "Payment verification failed")
	assert.Equal(t, 502, GetHTTPStatus(withMsg))
	assert.Equal(t, "Payment verification failed", UserMessage(withMsg))
	assert.True(t, errors.Is(withMsg, cause))
}
