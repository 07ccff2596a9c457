package backendapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttpclient"
)

func setup(t *testing.T) (*http.ServeMux, *client) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return mux, NewClient(ts.URL+"/", myhttpclient.New("backend-test"))
}

func TestGetCurrentUser(t *testing.T) {
	mux, sut := setup(t)

	mux.HandleFunc("/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":7,"email":"buyer@example.com","first_name":"Asha","role":3}`)
	})

	user, err := sut.GetCurrentUser(context.TODO(), "tok")
	assert.NoError(t, err)
	assert.Equal(t, User{ID: 7, Email: "buyer@example.com", FirstName: "Asha", Role: RoleCustomer}, user)
}

func TestGetCart(t *testing.T) {
	t.Run("Single page", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			fmt.Fprint(w, `{"count":2,"next":null,"previous":null,"results":[
				{"id":1,"product":{"id":10,"name":"Drill press","price":"4000.00"},"quantity":2,"total_price":null},
				{"id":2,"product":{"id":11,"name":"Safety goggles","price":"999.00"},"quantity":1,"total_price":"999.00"}]}`)
		})

		cart, err := sut.GetCart(context.TODO(), "tok")
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, "8000", cart.Items[0].LineTotal().String())
		assert.True(t, decimal.NewFromInt(8999).Equal(cart.Total()))
	})

	t.Run("Follows next links", func(t *testing.T) {
		mux, sut := setup(t)
		var baseURL string
		mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `{"count":2,"next":null,"results":[{"id":2,"product":{"id":11,"name":"Gloves","price":"10"},"quantity":1}]}`)
				return
			}
			baseURL = "http://" + r.Host
			fmt.Fprintf(w, `{"count":2,"next":"%s/cart/?page=2","results":[{"id":1,"product":{"id":10,"name":"Helmet","price":"20"},"quantity":1}]}`, baseURL)
		})

		cart, err := sut.GetCart(context.TODO(), "tok")
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 2)
		assert.True(t, decimal.NewFromInt(30).Equal(cart.Total()))
	})

	t.Run("Endless paging is cut off", func(t *testing.T) {
		mux, sut := setup(t)
		calls := 0
		mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprintf(w, `{"count":1,"next":"http://%s/cart/","results":[]}`, r.Host)
		})

		_, err := sut.GetCart(context.TODO(), "tok")
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, myerrors.GetHTTPStatus(err))
		assert.Equal(t, maxCartPages, calls)
	})
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	mux, sut := setup(t)

	mux.HandleFunc("/cart/5/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"quantity":3}`, string(body))
			fmt.Fprint(w, `{"id":5,"product":{"id":10,"name":"Helmet","price":"20"},"quantity":3}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	item, err := sut.UpdateCartItem(context.TODO(), "tok", 5, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	err = sut.RemoveCartItem(context.TODO(), "tok", 5)
	assert.NoError(t, err)
}

func TestCreateOrderFromCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/orders/create_from_cart/", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			req := CreateOrderRequest{}
			err := json.NewDecoder(r.Body).Decode(&req)
			assert.NoError(t, err)
			assert.Equal(t, CreateOrderRequest{ShippingAddress: "12 MG Road, Pune", PhoneNumber: "9876543210"}, req)

			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":42,"order_number":"ORD-0042","status":"pending","total_amount":"8999.00"}`)
		})

		order, err := sut.CreateOrderFromCart(context.TODO(), "tok", CreateOrderRequest{ShippingAddress: "12 MG Road, Pune", PhoneNumber: "9876543210"})
		assert.NoError(t, err)
		assert.Equal(t, 42, order.ID)
		assert.Equal(t, "ORD-0042", order.OrderNumber)
	})

	t.Run("Backend message is kept", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/orders/create_from_cart/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"Cart is empty"}`)
		})

		_, err := sut.CreateOrderFromCart(context.TODO(), "tok", CreateOrderRequest{})
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assert.Equal(t, "Cart is empty", myerrors.UserMessage(err))
	})

	t.Run("Server error gets generic message", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/orders/create_from_cart/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `<html>oops</html>`)
		})

		_, err := sut.CreateOrderFromCart(context.TODO(), "tok", CreateOrderRequest{})
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, myerrors.GetHTTPStatus(err))
		assert.Equal(t, myerrors.GenericUserMessage, myerrors.UserMessage(err))
	})
}

func TestRazorpay(t *testing.T) {
	t.Run("Create payment session", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/payments/create_razorpay_order/", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"order_id":42}`, string(body))
			fmt.Fprint(w, `{"amount":899900,"currency":"INR","razorpay_order_id":"order_Rz123"}`)
		})

		session, err := sut.CreateRazorpayOrder(context.TODO(), "tok", CreateRazorpayOrderRequest{OrderID: 42})
		assert.NoError(t, err)
		assert.Equal(t, RazorpayOrder{Amount: 899900, Currency: "INR", RazorpayOrderID: "order_Rz123"}, session)
	})

	t.Run("Verify payment", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/payments/verify_payment/", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"razorpay_payment_id":"pay_1","razorpay_order_id":"order_Rz123","razorpay_signature":"sig"}`, string(body))
			fmt.Fprint(w, `{"status":"success","message":"Payment verified"}`)
		})

		resp, err := sut.VerifyPayment(context.TODO(), "tok", VerifyPaymentRequest{RazorpayPaymentID: "pay_1", RazorpayOrderID: "order_Rz123", RazorpaySignature: "sig"})
		assert.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
	})

	t.Run("Verification rejected", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/payments/verify_payment/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"Invalid signature"}`)
		})

		_, err := sut.VerifyPayment(context.TODO(), "tok", VerifyPaymentRequest{})
		assert.True(t, errors.Is(err, ErrVerificationFailed))
	})

	t.Run("Verification fails with server error", func(t *testing.T) {
		mux, sut := setup(t)
		mux.HandleFunc("/payments/verify_payment/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := sut.VerifyPayment(context.TODO(), "tok", VerifyPaymentRequest{})
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrVerificationFailed))
	})
}

func TestExtractMessage(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "detail", body: `{"detail":"Authentication credentials were not provided."}`, expected: "Authentication credentials were not provided."},
		{name: "message", body: `{"message":"Out of stock"}`, expected: "Out of stock"},
		{name: "field error", body: `{"phone_number":["Enter a valid phone number."]}`, expected: "phone number: Enter a valid phone number."},
		{name: "non field error", body: `{"non_field_errors":["Cart is empty"]}`, expected: "Cart is empty"},
		{name: "not json", body: `Bad Gateway`, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractMessage([]byte(tc.body)))
		})
	}
}
