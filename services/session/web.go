package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/equipmentshop/lib/mycontext"
	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttp"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
)

const defaultLandingPage = "/cart"

type loginForm struct {
	Token     string `form:"token"`
	ReturnURL string `form:"returnURL"`
}

type webService struct {
	manager *Manager
	logger  mylog.Logger
}

func NewWebService(manager *Manager) *webService {
	return &webService{
		manager: manager,
		logger:  mylog.New("session"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/session", s.statusPage()).Methods("GET")
	router.HandleFunc("/session", s.loginPage()).Methods("POST")
	router.HandleFunc("/session/logout", s.logoutPage()).Methods("POST")

	return nil
}

func (s *webService) statusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		session, err := s.manager.Load(c, r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, Status{
			Authenticated: session.Authenticated(),
			Email:         session.Email,
			FirstName:     session.FirstName,
			Role:          session.Role,
		})
	}
}

func (s *webService) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		form := loginForm{}
		err = formcodec.NewDecoder().Decode(&form, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("error decoding form: %s", err)))
			return
		}

		_, err = s.manager.Login(c, w, form.Token)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, localPath(form.ReturnURL), http.StatusSeeOther)
	}
}

func (s *webService) logoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.manager.Logout(c, w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// localPath prevents redirects to other sites.
func localPath(returnURL string) string {
	if !strings.HasPrefix(returnURL, "/") || strings.HasPrefix(returnURL, "//") {
		return defaultLandingPage
	}
	return returnURL
}
