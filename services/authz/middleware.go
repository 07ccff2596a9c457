package authz

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/equipmentshop/lib/mycontext"
	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttp"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/services/session"
)

//go:generate mockgen -source=middleware.go -package authz -destination middleware_mock.go SessionLoader
type SessionLoader interface {
	Load(c context.Context, r *http.Request) (session.Session, error)
}

// Middleware loads the visitor's session once, checks it against the policy and
// attaches it to the request context.
func Middleware(policy Policy, loader SessionLoader) mux.MiddlewareFunc {
	logger := mylog.New("authz")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := mycontext.ContextFromHTTPRequest(r)
			errorWriter := myhttp.NewWriter(logger)

			s, err := loader.Load(c, r)
			if err != nil {
				errorWriter.WriteError(c, w, 1, err)
				return
			}

			if policy.IsTask(r.URL.Path) && r.Header.Get(myqueue.QueueNameHeader) == "" {
				errorWriter.WriteError(c, w, 4, myerrors.NewAuthenticationError(
					fmt.Errorf("call to %s was not delivered by the task queue", r.URL.Path)))
				return
			}

			if !policy.IsPublic(r.URL.Path) {
				if !s.Authenticated() {
					errorWriter.WriteError(c, w, 2, myerrors.WithUserMessage(
						myerrors.NewAuthenticationError(fmt.Errorf("anonymous access to %s", r.URL.Path)),
						"Please log in first"))
					return
				}
				if !policy.Allows(s.Role, r.URL.Path) {
					errorWriter.WriteError(c, w, 3, myerrors.WithUserMessage(
						myerrors.NewAuthenticationError(fmt.Errorf("role %d has no access to %s", s.Role, r.URL.Path)),
						"You are not allowed to visit this page"))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}
