package checkout

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/equipmentshop/lib/mycontext"
	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttp"
	"github.com/MarcGrol/equipmentshop/lib/mylock"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/mypublisher"
	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/checkout/checkoutevents"
	"github.com/MarcGrol/equipmentshop/services/session"
)

const wizardPath = "/checkout"

type addressForm struct {
	ShippingAddress string `form:"shippingAddress"`
	PhoneNumber     string `form:"phoneNumber"`
}

type orderForm struct {
	PaymentMethod checkoutevents.PaymentMethod `form:"paymentMethod"`
}

type webService struct {
	service *service
	decoder *formcodec.Decoder
	logger  mylog.Logger
}

func NewService(config Config, stateStore mystore.Store[CheckoutState], addressCache *AddressCache, backend backendapi.Client,
	gateway Gateway, locker mylock.Locker, pub mypublisher.Publisher, queue myqueue.TaskQueuer, sessions SessionLoader, nower mytime.Nower) *webService {
	return &webService{
		service: newService(config, stateStore, addressCache, backend, gateway, locker, pub, queue, sessions, nower),
		decoder: formcodec.NewDecoder(),
		logger:  mylog.New("checkout"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/checkout", s.wizardPage()).Methods("GET")
	router.HandleFunc("/checkout/cart/confirm", s.stepPage(s.confirmCart)).Methods("POST")
	router.HandleFunc("/checkout/address", s.stepPage(s.confirmAddress)).Methods("POST")
	router.HandleFunc("/checkout/back", s.stepPage(s.goBack)).Methods("POST")
	router.HandleFunc("/checkout/order", s.stepPage(s.placeOrder)).Methods("POST")
	router.HandleFunc("/checkout/payment/callback", s.stepPage(s.completePayment)).Methods("POST")
	router.HandleFunc("/checkout/payment/dismissed", s.stepPage(s.dismissPayment)).Methods("POST")
	router.HandleFunc("/checkout/payment/reopen", s.stepPage(s.reopenPayment)).Methods("POST")

	router.HandleFunc("/api/checkout/statuscheck/{sessionUID}/{orderID}", s.statusCheck()).Methods("PUT")

	err := s.service.CreateTopics(c)
	if err != nil {
		return err
	}

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	wizardPageTemplate *template.Template
)

func init() {
	wizardPageTemplate = template.Must(template.New("checkout.html").Funcs(template.FuncMap{
		"money": backendapi.FormatMinor,
	}).ParseFS(templateFolder, "templates/checkout.html"))
}

func (s *webService) wizardPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		sess := session.FromContext(c)

		page, err := s.service.LoadWizard(c, sess)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = wizardPageTemplate.Execute(w, page)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

// stepPage runs a wizard action and always returns to the wizard. A failure, or a
// message for the visitor, is shown as notice on the next render.
func (s *webService) stepPage(action func(c context.Context, sess session.Session, r *http.Request) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)
		sess := session.FromContext(c)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		notice, err := action(c, sess, r)
		if err != nil {
			if myerrors.GetHTTPStatus(err) == http.StatusForbidden {
				errorWriter.WriteError(c, w, 2, err)
				return
			}
			s.logger.Log(c, sess.UID, mylog.SeverityWarn, "Checkout action %s failed: %s", r.URL.Path, err)
			notice = myerrors.UserMessage(err)
		}
		if notice != "" {
			s.service.setNotice(c, sess.UID, notice)
		}

		http.Redirect(w, r, wizardPath, http.StatusSeeOther)
	}
}

func (s *webService) confirmCart(c context.Context, sess session.Session, r *http.Request) (string, error) {
	_, err := s.service.ConfirmCart(c, sess)
	return "", err
}

func (s *webService) confirmAddress(c context.Context, sess session.Session, r *http.Request) (string, error) {
	form := addressForm{}
	err := s.decoder.Decode(&form, r.PostForm)
	if err != nil {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("error decoding address form: %s", err))
	}

	_, err = s.service.ConfirmAddress(c, sess, form.ShippingAddress, form.PhoneNumber)
	return "", err
}

func (s *webService) goBack(c context.Context, sess session.Session, r *http.Request) (string, error) {
	_, err := s.service.GoBack(c, sess)
	return "", err
}

func (s *webService) placeOrder(c context.Context, sess session.Session, r *http.Request) (string, error) {
	form := orderForm{}
	err := s.decoder.Decode(&form, r.PostForm)
	if err != nil {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("error decoding order form: %s", err))
	}

	outcome, err := s.service.PlaceOrder(c, sess, form.PaymentMethod)
	if err != nil {
		return "", err
	}
	return outcome.Message, nil
}

func (s *webService) completePayment(c context.Context, sess session.Session, r *http.Request) (string, error) {
	proof := PaymentProof{}
	err := s.decoder.Decode(&proof, r.PostForm)
	if err != nil {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("error decoding payment proof: %s", err))
	}

	outcome, err := s.service.CompletePayment(c, sess, proof)
	if err != nil {
		return "", err
	}
	return outcome.Message, nil
}

func (s *webService) dismissPayment(c context.Context, sess session.Session, r *http.Request) (string, error) {
	outcome, err := s.service.DismissPayment(c, sess)
	if err != nil {
		return "", err
	}
	return outcome.Message, nil
}

func (s *webService) reopenPayment(c context.Context, sess session.Session, r *http.Request) (string, error) {
	return "", s.service.ReopenPayment(c, sess)
}

func (s *webService) statusCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]
		orderID, err := strconv.Atoi(mux.Vars(r)["orderID"])
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("invalid order id: %s", err)))
			return
		}

		err = s.service.CheckOrderStatus(c, sessionUID, orderID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Checked status of order %d", orderID),
		})
	}
}
