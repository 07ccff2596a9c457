package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
	"github.com/MarcGrol/equipmentshop/lib/myuuid"
	"github.com/MarcGrol/equipmentshop/lib/myvault"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

type Manager struct {
	sessionStore mystore.Store[Session]
	vault        myvault.VaultReadWriter[myvault.Token]
	backend      backendapi.Client
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

func NewManager(sessionStore mystore.Store[Session], vault myvault.VaultReadWriter[myvault.Token], backend backendapi.Client, nower mytime.Nower, uuider myuuid.UUIDer) *Manager {
	return &Manager{
		sessionStore: sessionStore,
		vault:        vault,
		backend:      backend,
		nower:        nower,
		uuider:       uuider,
		logger:       mylog.New("session"),
	}
}

// Load returns the session of the visitor that sent r. A visitor without a valid
// session gets an empty, unauthenticated one.
func (m *Manager) Load(c context.Context, r *http.Request) (Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, nil
	}

	return m.LoadByUID(c, cookie.Value)
}

func (m *Manager) LoadByUID(c context.Context, sessionUID string) (Session, error) {
	session, exists, err := m.sessionStore.Get(c, sessionUID)
	if err != nil {
		return Session{}, myerrors.NewInternalError(fmt.Errorf("error fetching session %s: %s", sessionUID, err))
	}
	if !exists {
		return Session{}, nil
	}

	token, exists, err := m.vault.Get(c, sessionUID)
	if err != nil {
		return Session{}, myerrors.NewInternalError(fmt.Errorf("error fetching token of session %s: %s", sessionUID, err))
	}
	if !exists {
		return Session{}, nil
	}
	session.Token = token.AccessToken

	return session, nil
}

// Login takes over a backend token obtained by the login screens. The token is only
// accepted when the backend recognizes it.
func (m *Manager) Login(c context.Context, w http.ResponseWriter, accessToken string) (Session, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return Session{}, myerrors.NewInvalidInputErrorf("missing token")
	}

	user, err := m.backend.GetCurrentUser(c, accessToken)
	if err != nil {
		if myerrors.GetHTTPStatus(err) == http.StatusUnauthorized {
			return Session{}, myerrors.NewAuthenticationError(err)
		}
		return Session{}, err
	}

	now := m.nower.Now()
	session := Session{
		UID:       m.uuider.Create(),
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		Role:      user.Role,
		CreatedAt: now,
	}

	err = m.sessionStore.RunInTransaction(c, func(c context.Context) error {
		err := m.sessionStore.Put(c, session.UID, session)
		if err != nil {
			return fmt.Errorf("error storing session %s: %s", session.UID, err)
		}

		err = m.vault.Put(c, session.UID, myvault.Token{
			SessionUID:  session.UID,
			AccessToken: accessToken,
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("error storing token of session %s: %s", session.UID, err)
		}
		return nil
	})
	if err != nil {
		return Session{}, myerrors.NewInternalError(err)
	}
	session.Token = accessToken

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.UID,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	m.logger.Log(c, session.UID, mylog.SeverityInfo, "User %d logged in with role %d", user.ID, user.Role)

	return session, nil
}

// Logout forgets both the token and the user.
func (m *Manager) Logout(c context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sessionUID := cookie.Value

	err = m.vault.Delete(c, sessionUID)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error deleting token of session %s: %s", sessionUID, err))
	}

	err = m.sessionStore.Delete(c, sessionUID)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error deleting session %s: %s", sessionUID, err))
	}

	m.logger.Log(c, sessionUID, mylog.SeverityInfo, "Session %s logged out", sessionUID)

	return nil
}
