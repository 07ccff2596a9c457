package myhttpclient

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	consecutiveFailuresToTrip = 5
	openStateTimeout          = 30 * time.Second
)

var errServerSide = errors.New("server side error")

type response struct {
	status int
	body   []byte
}

type breakingSender struct {
	name    string
	sender  HTTPSender
	breaker *gobreaker.CircuitBreaker[response]
}

func newBreakingSender(name string, sender HTTPSender) *breakingSender {
	return &breakingSender{
		name:   name,
		sender: sender,
		breaker: gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     openStateTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= consecutiveFailuresToTrip
			},
			IsSuccessful: func(err error) bool {
				// canceled calls do not count against the remote side
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit %s: %s -> %s", name, from, to)
			},
		}),
	}
}

// Send passes the call on while the circuit is closed. 5xx responses count as failures
// but are still handed back to the caller as regular responses.
func (s *breakingSender) Send(c context.Context, method string, url string, bearerToken string, body []byte) (int, []byte, error) {
	resp, err := s.breaker.Execute(func() (response, error) {
		status, respBody, err := s.sender.Send(c, method, url, bearerToken, body)
		if err != nil {
			return response{}, err
		}
		if status >= http.StatusInternalServerError {
			return response{status: status, body: respBody}, errServerSide
		}
		return response{status: status, body: respBody}, nil
	})
	if err != nil {
		if errors.Is(err, errServerSide) {
			return resp.status, resp.body, nil
		}
		if IsUnavailable(err) {
			return 0, []byte{}, fmt.Errorf("%s not available: %w", s.name, err)
		}
		return 0, []byte{}, err
	}

	return resp.status, resp.body, nil
}

// IsUnavailable tells whether err was returned without calling the remote side
// because its circuit is open.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
