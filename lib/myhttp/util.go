package myhttp

import (
	"fmt"
	"net/http"
)

func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
