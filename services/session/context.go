package session

import "context"

type ctxSessionKey struct{}

func NewContext(c context.Context, session Session) context.Context {
	return context.WithValue(c, ctxSessionKey{}, session)
}

// FromContext returns the session attached at the routing boundary.
func FromContext(c context.Context) Session {
	session, ok := c.Value(ctxSessionKey{}).(Session)
	if !ok {
		return Session{}
	}
	return session
}
