package myhttpclient

import (
	"context"
)

//go:generate mockgen -source=api.go -package myhttpclient -destination http_sender_mock.go HTTPSender
type HTTPSender interface {
	Send(c context.Context, method string, url string, bearerToken string, body []byte) (int, []byte, error)
}

// New returns a json sender that stops calling the remote side while it keeps failing.
func New(name string) HTTPSender {
	return newBreakingSender(name, newJSONHTTPClient())
}
