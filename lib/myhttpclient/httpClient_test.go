package myhttpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
)

func TestJSONHTTPClient(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/orders/create_from_cart/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, `{"phone_number":"9876543210"}`, string(body))

		w.WriteHeader(201)
		w.Write([]byte(`{"id":42}`))
	})

	status, body, err := newJSONHTTPClient().Send(context.TODO(), http.MethodPost, ts.URL+"/orders/create_from_cart/", "abc123", []byte(`{"phone_number":"9876543210"}`))
	assert.NoError(t, err)
	assert.Equal(t, 201, status)
	assert.Equal(t, `{"id":42}`, string(body))
}

func TestAnonymousGetHasNoAuthorization(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "", r.Header.Get("Authorization"))
		assert.Equal(t, "", r.Header.Get("Content-Type"))
		w.WriteHeader(200)
	}))
	defer ts.Close()

	status, _, err := New("backend").Send(context.TODO(), http.MethodGet, ts.URL, "", nil)
	assert.NoError(t, err)
	assert.Equal(t, 200, status)
}

func TestBreakerOpensAfterConsecutiveServerErrors(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"maintenance"}`))
	}))
	defer ts.Close()

	sender := New("backend")

	for i := 0; i < consecutiveFailuresToTrip; i++ {
		status, body, err := sender.Send(context.TODO(), http.MethodGet, ts.URL, "", nil)
		assert.NoError(t, err)
		assert.Equal(t, 503, status)
		assert.Equal(t, `{"detail":"maintenance"}`, string(body))
	}

	_, _, err := sender.Send(context.TODO(), http.MethodGet, ts.URL, "", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, consecutiveFailuresToTrip, hits)
}

func TestBreakerPassesClientErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	sender := New("backend")
	for i := 0; i < consecutiveFailuresToTrip+1; i++ {
		status, _, err := sender.Send(context.TODO(), http.MethodGet, ts.URL, "", nil)
		assert.NoError(t, err)
		assert.Equal(t, 400, status)
	}
}
