package contracttests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

// cartPageSize is small so clients have to follow next links.
const cartPageSize = 2

type cartPageResponse struct {
	Count    int                   `json:"count"`
	Next     *string               `json:"next"`
	Previous *string               `json:"previous"`
	Results  []backendapi.CartItem `json:"results"`
}

type fakeServer struct {
	backend *FakeBackend
}

// NewFakeBackendServer exposes the fake over http, with the paths and payloads of the real backend.
func NewFakeBackendServer(backend *FakeBackend) http.Handler {
	s := &fakeServer{backend: backend}

	router := mux.NewRouter()
	router.HandleFunc("/auth/user/", s.currentUser()).Methods("GET")
	router.HandleFunc("/cart/", s.cart()).Methods("GET")
	router.HandleFunc("/cart/{itemID}/", s.updateCartItem()).Methods("PATCH")
	router.HandleFunc("/cart/{itemID}/", s.removeCartItem()).Methods("DELETE")
	router.HandleFunc("/orders/create_from_cart/", s.createOrder()).Methods("POST")
	router.HandleFunc("/orders/{orderID}/", s.order()).Methods("GET")
	router.HandleFunc("/payments/create_razorpay_order/", s.createRazorpayOrder()).Methods("POST")
	router.HandleFunc("/payments/verify_payment/", s.verifyPayment()).Methods("POST")

	return router
}

func bearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, myerrors.GetHTTPStatus(err), map[string]string{"detail": myerrors.UserMessage(err)})
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, myerrors.NewBackendError(http.StatusNotFound, "Not found.", err)
	}
	return id, nil
}

func decode(r *http.Request, req any) error {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		return myerrors.NewBackendError(http.StatusBadRequest, "JSON parse error", err)
	}
	return nil
}

func (s *fakeServer) currentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.backend.GetCurrentUser(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *fakeServer) cart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := s.backend.GetCart(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, err)
			return
		}

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		start := min((page-1)*cartPageSize, len(cart.Items))
		end := min(start+cartPageSize, len(cart.Items))

		resp := cartPageResponse{
			Count:   len(cart.Items),
			Results: cart.Items[start:end],
		}
		if end < len(cart.Items) {
			next := fmt.Sprintf("http://%s/cart/?page=%d", r.Host, page+1)
			resp.Next = &next
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *fakeServer) updateCartItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathID(r, "itemID")
		if err != nil {
			writeError(w, err)
			return
		}
		req := struct {
			Quantity int `json:"quantity"`
		}{}
		err = decode(r, &req)
		if err != nil {
			writeError(w, err)
			return
		}

		item, err := s.backend.UpdateCartItem(r.Context(), bearerToken(r), itemID, req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func (s *fakeServer) removeCartItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathID(r, "itemID")
		if err != nil {
			writeError(w, err)
			return
		}

		err = s.backend.RemoveCartItem(r.Context(), bearerToken(r), itemID)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *fakeServer) createOrder() http.HandlerFunc {
	return s.jsonCall(func(c context.Context, token string, r *http.Request) (any, error) {
		req := backendapi.CreateOrderRequest{}
		err := decode(r, &req)
		if err != nil {
			return nil, err
		}
		return s.backend.CreateOrderFromCart(c, token, req)
	}, http.StatusCreated)
}

func (s *fakeServer) order() http.HandlerFunc {
	return s.jsonCall(func(c context.Context, token string, r *http.Request) (any, error) {
		orderID, err := pathID(r, "orderID")
		if err != nil {
			return nil, err
		}
		return s.backend.GetOrder(c, token, orderID)
	}, http.StatusOK)
}

func (s *fakeServer) createRazorpayOrder() http.HandlerFunc {
	return s.jsonCall(func(c context.Context, token string, r *http.Request) (any, error) {
		req := backendapi.CreateRazorpayOrderRequest{}
		err := decode(r, &req)
		if err != nil {
			return nil, err
		}
		return s.backend.CreateRazorpayOrder(c, token, req)
	}, http.StatusOK)
}

func (s *fakeServer) verifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := backendapi.VerifyPaymentRequest{}
		err := decode(r, &req)
		if err != nil {
			writeError(w, err)
			return
		}

		resp, err := s.backend.VerifyPayment(r.Context(), bearerToken(r), req)
		if err != nil {
			if errors.Is(err, backendapi.ErrVerificationFailed) {
				writeJSON(w, http.StatusBadRequest, resp)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *fakeServer) jsonCall(call func(c context.Context, token string, r *http.Request) (any, error), successStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := call(r.Context(), bearerToken(r), r)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, successStatus, resp)
	}
}
