package cart

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/equipmentshop/lib/mycontext"
	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttp"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/mypublisher"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/checkout/checkoutevents"
	"github.com/MarcGrol/equipmentshop/services/session"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

func NewService(viewStore mystore.Store[CartView], backend backendapi.Client, pub mypublisher.Publisher, nower mytime.Nower, baseURL string) *webService {
	return &webService{
		service: newService(viewStore, backend, pub, nower, baseURL),
		logger:  mylog.New("cart"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/cart", s.cartPage()).Methods("GET")
	router.HandleFunc("/cart/items/{itemID}/increment", s.mutatePage(s.service.increment)).Methods("POST")
	router.HandleFunc("/cart/items/{itemID}/decrement", s.mutatePage(s.service.decrement)).Methods("POST")
	router.HandleFunc("/cart/items/{itemID}/remove", s.mutatePage(s.service.remove)).Methods("POST")

	router.HandleFunc("/api/cart/event", s.handleEventEnvelope()).Methods("POST")

	err := s.service.Subscribe(c)
	if err != nil {
		return err
	}

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	cartPageTemplate *template.Template
)

func init() {
	cartPageTemplate = template.Must(template.New("cart.html").Funcs(template.FuncMap{
		"money": backendapi.FormatMinor,
	}).ParseFS(templateFolder, "templates/cart.html"))
}

type cartPageData struct {
	View   CartView
	Notice string
}

func (s *webService) cartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		sess := session.FromContext(c)

		view, err := s.service.refresh(c, sess)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		notice, err := s.service.takeNotice(c, sess.UID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = cartPageTemplate.Execute(w, cartPageData{View: view, Notice: notice})
		if err != nil {
			errorWriter.WriteError(c, w, 3, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) mutatePage(mutation func(c context.Context, sess session.Session, itemID int) (CartView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		sess := session.FromContext(c)

		itemID, err := strconv.Atoi(mux.Vars(r)["itemID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("invalid item id: %s", err)))
			return
		}

		_, err = mutation(c, sess, itemID)
		if err != nil {
			s.logger.Log(c, sess.UID, mylog.SeverityWarn, "Cart change on item %d failed: %s", itemID, err)
			s.service.setNotice(c, sess.UID, myerrors.UserMessage(err))
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}
