package session

import (
	"time"

	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

const CookieName = "sid"

// Session is the explicit replacement for a global "current user". It is loaded once per
// request and handed to whoever needs it.
type Session struct {
	UID       string
	UserID    int
	Email     string
	FirstName string
	Role      backendapi.Role
	CreatedAt time.Time
	Token     string `datastore:"-" json:"-"`
}

func (s Session) Authenticated() bool {
	return s.UID != "" && s.UserID != 0 && s.Token != ""
}

type Status struct {
	Authenticated bool
	Email         string
	FirstName     string
	Role          backendapi.Role
}
