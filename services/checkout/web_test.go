package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/checkout/checkoutevents"
	"github.com/MarcGrol/equipmentshop/services/session"
)

func TestWizardPages(t *testing.T) {

	t.Run("Address form moves to payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, f, _ := setupWeb(t, ctrl)
		assert.NoError(t, f.stateStore.Put(context.TODO(), "sess-1", CheckoutState{SessionUID: "sess-1", Step: StepAddress, Cart: snapshot8999}))

		// when
		response := postForm(router, "/checkout/address", url.Values{
			"shippingAddress": {"12 MG Road, Pune"},
			"phoneNumber":     {"9876543210"},
		})

		// then
		assert.Equal(t, http.StatusSeeOther, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))
		assert.Equal(t, StepPayment, f.storedState(t).Step)
	})

	t.Run("Missing phone number becomes notice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, f, _ := setupWeb(t, ctrl)
		assert.NoError(t, f.stateStore.Put(context.TODO(), "sess-1", CheckoutState{SessionUID: "sess-1", Step: StepAddress, Cart: snapshot8999}))

		// when
		response := postForm(router, "/checkout/address", url.Values{
			"shippingAddress": {"12 MG Road, Pune"},
			"phoneNumber":     {"  "},
		})

		// then
		assert.Equal(t, http.StatusSeeOther, response.Code)
		state := f.storedState(t)
		assert.Equal(t, StepAddress, state.Step)
		assert.Equal(t, "Please enter a phone number", state.Notice)

		// when
		response = get(router, "/checkout")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), "Please enter a phone number")
		assert.Equal(t, "", f.storedState(t).Notice)
	})

	t.Run("Cash on delivery order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, f, _ := setupWeb(t, ctrl)
		f.givenAtPayment(t, snapshot8999, puneAddress)
		f.backend.EXPECT().CreateOrderFromCart(gomock.Any(), "tok", gomock.Any()).Return(createdOrder, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Return(nil).Times(2)

		// when
		response := postForm(router, "/checkout/order", url.Values{"paymentMethod": {"cod"}})

		// then
		assert.Equal(t, http.StatusSeeOther, response.Code)
		state := f.storedState(t)
		assert.Equal(t, StepDone, state.Step)
		assert.Equal(t, "Order ORD-0042 placed successfully", state.Notice)
	})

	t.Run("Gateway is opened on the next render", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, f, _ := setupWeb(t, ctrl)
		f.givenAtPayment(t, snapshot8999, puneAddress)
		f.backend.EXPECT().CreateOrderFromCart(gomock.Any(), "tok", gomock.Any()).Return(createdOrder, nil)
		f.backend.EXPECT().CreateRazorpayOrder(gomock.Any(), "tok", backendapi.CreateRazorpayOrderRequest{OrderID: 42}).Return(razorpayOrder, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Return(nil).Times(2)

		// when
		response := postForm(router, "/checkout/order", url.Values{"paymentMethod": {"razorpay"}})
		assert.Equal(t, http.StatusSeeOther, response.Code)
		response = get(router, "/checkout")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		body := response.Body.String()
		assert.Contains(t, body, "https://checkout.razorpay.com/v1/checkout.js")
		assert.Contains(t, body, `"rzp_test_key"`)
		assert.Contains(t, body, `"order_Nx1"`)
		assert.Contains(t, body, "899900")
		assert.Contains(t, body, `"INR"`)
	})

	t.Run("Payment callback forwards proof", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, f, gatewayStore := setupWeb(t, ctrl)
		f.givenAtPayment(t, snapshot8999, puneAddress)
		_, err := f.sut.update(context.TODO(), "sess-1", func(c context.Context, state CheckoutState) (CheckoutState, error) {
			state.PendingOrder = PendingOrder{OrderID: 42, OrderNumber: "ORD-0042", PaymentMethod: checkoutevents.PaymentMethodGateway}
			state.PendingPayment = PendingPayment{RazorpayOrderID: "order_Nx1", Amount: 899900, Currency: "INR"}
			return state, nil
		})
		assert.NoError(t, err)
		assert.NoError(t, gatewayStore.Put(context.TODO(), "sess-1", GatewayOptions{SessionUID: "sess-1"}))
		f.backend.EXPECT().VerifyPayment(gomock.Any(), "tok", backendapi.VerifyPaymentRequest{
			RazorpayPaymentID: "pay_P1",
			RazorpayOrderID:   "order_Nx1",
			RazorpaySignature: "sig_abc",
		}).Return(backendapi.VerifyPaymentResponse{Status: "success"}, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.AssignableToTypeOf(checkoutevents.PaymentVerified{})).Return(nil)

		// when
		response := postForm(router, "/checkout/payment/callback", url.Values{
			"razorpay_payment_id": {"pay_P1"},
			"razorpay_order_id":   {"order_Nx1"},
			"razorpay_signature":  {"sig_abc"},
		})

		// then
		assert.Equal(t, http.StatusSeeOther, response.Code)
		assert.Equal(t, StepDone, f.storedState(t).Step)
		assert.Empty(t, gatewayStore.Items)
	})

	t.Run("Dismissed gateway schedules status check", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// given
		router, f, _ := setupWeb(t, ctrl)
		f.givenAtPayment(t, snapshot8999, puneAddress)
		_, err := f.sut.update(context.TODO(), "sess-1", func(c context.Context, state CheckoutState) (CheckoutState, error) {
			state.PendingOrder = PendingOrder{OrderID: 42, OrderNumber: "ORD-0042", PaymentMethod: checkoutevents.PaymentMethodGateway}
			state.PendingPayment = PendingPayment{RazorpayOrderID: "order_Nx1", Amount: 899900, Currency: "INR"}
			return state, nil
		})
		assert.NoError(t, err)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Return(nil)
		f.queue.EXPECT().Enqueue(gomock.Any(), gomock.AssignableToTypeOf(myqueue.Task{})).Return(nil)

		// when
		response := postForm(router, "/checkout/payment/dismissed", url.Values{})

		// then
		assert.Equal(t, http.StatusSeeOther, response.Code)
		assert.Equal(t, dismissedMessage, f.storedState(t).Notice)
	})
}

func TestStatusCheckEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	router, f, _ := setupWeb(t, ctrl)
	f.sessions.EXPECT().LoadByUID(gomock.Any(), "sess-1").Return(customer, nil)
	f.backend.EXPECT().GetOrder(gomock.Any(), "tok", 42).Return(createdOrder, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Return(nil)

	// when
	request, _ := http.NewRequest(http.MethodPut, "/api/checkout/statuscheck/sess-1/42", nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	// then
	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"Message":"Checked status of order 42"}`, response.Body.String())
}

func get(router *mux.Router, path string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodGet, path, nil)
	request = request.WithContext(session.NewContext(request.Context(), customer))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func postForm(router *mux.Router, path string, form url.Values) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request = request.WithContext(session.NewContext(request.Context(), customer))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setupWeb(t *testing.T, ctrl *gomock.Controller) (*mux.Router, fixture, *mystore.InMemoryStore[GatewayOptions]) {
	c := context.TODO()
	router := mux.NewRouter()
	f := setup(t, ctrl)
	gatewayStore, _, _ := mystore.NewInMemoryStore[GatewayOptions](c)

	f.publisher.EXPECT().CreateTopic(gomock.Any(), checkoutevents.TopicName).Return(nil)

	sut := NewService(Config{RazorpayKeyID: "rzp_test_key", BaseURL: "http://localhost:8080"},
		f.stateStore, NewAddressCache(f.entryStore, f.nower), f.backend, NewPageGateway(gatewayStore), f.locker, f.publisher, f.queue, f.sessions, f.nower)
	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)
	f.sut = sut.service

	return router, f, gatewayStore
}
