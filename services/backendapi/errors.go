package backendapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttpclient"
)

// ErrVerificationFailed is returned when the backend rejects the proof of a gateway payment.
var ErrVerificationFailed = errors.New("payment verification failed")

func transportError(operation string, err error) error {
	if myhttpclient.IsUnavailable(err) {
		return myerrors.NewUnavailableError(fmt.Errorf("error %s: %w", operation, err))
	}
	return myerrors.NewBadGatewayError(fmt.Errorf("error %s: %w", operation, err))
}

func statusError(operation string, status int, body []byte) error {
	message := extractMessage(body)
	err := fmt.Errorf("error %s: backend returned %d: %s", operation, status, message)
	if message == "" {
		message = myerrors.GenericUserMessage
	}
	return myerrors.NewBackendError(status, message, err)
}

// extractMessage finds the human readable part of an error body. It understands
// {"detail": ".."}, {"error": ".."}, {"message": ".."} and field errors like {"phone_number": [".."]}.
func extractMessage(body []byte) string {
	fields := map[string]any{}
	err := json.Unmarshal(body, &fields)
	if err != nil {
		return ""
	}

	for _, key := range []string{"detail", "error", "message"} {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		list, ok := fields[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		first, ok := list[0].(string)
		if !ok {
			continue
		}
		if key == "non_field_errors" {
			return first
		}
		return fmt.Sprintf("%s: %s", strings.ReplaceAll(key, "_", " "), first)
	}

	return ""
}
