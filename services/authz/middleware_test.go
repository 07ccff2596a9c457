package authz

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/session"
)

func TestPolicy(t *testing.T) {
	policy := DefaultPolicy()

	testCases := []struct {
		name     string
		role     backendapi.Role
		path     string
		expected bool
	}{
		{name: "customer to checkout", role: backendapi.RoleCustomer, path: "/checkout", expected: true},
		{name: "customer to cart item", role: backendapi.RoleCustomer, path: "/cart/items/5/remove", expected: true},
		{name: "customer to admin", role: backendapi.RoleCustomer, path: "/admin/products", expected: false},
		{name: "vendor to checkout", role: backendapi.RoleVendor, path: "/checkout", expected: false},
		{name: "vendor to vendor", role: backendapi.RoleVendor, path: "/vendor/profile", expected: true},
		{name: "admin to admin", role: backendapi.RoleAdmin, path: "/admin", expected: true},
		{name: "prefix is not a word prefix", role: backendapi.RoleCustomer, path: "/cartoons", expected: false},
		{name: "anybody to public", role: backendapi.RoleUnknown, path: "/pubsub/checkout/123", expected: true},
		{name: "anybody to task target", role: backendapi.RoleUnknown, path: "/api/checkout/statuscheck/sess-1/42", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, policy.Allows(tc.role, tc.path))
		})
	}
}

func TestMiddleware(t *testing.T) {
	customer := session.Session{UID: "sess-1", UserID: 7, Role: backendapi.RoleCustomer, Token: "tok"}
	vendor := session.Session{UID: "sess-2", UserID: 8, Role: backendapi.RoleVendor, Token: "tok"}

	testCases := []struct {
		name         string
		path         string
		session      session.Session
		queueName    string
		loadErr      error
		expectedCode int
	}{
		{name: "customer reaches checkout", path: "/checkout", session: customer, expectedCode: http.StatusOK},
		{name: "vendor is refused checkout", path: "/checkout", session: vendor, expectedCode: http.StatusForbidden},
		{name: "anonymous is refused checkout", path: "/checkout", session: session.Session{}, expectedCode: http.StatusForbidden},
		{name: "anonymous reaches public", path: "/session", session: session.Session{}, expectedCode: http.StatusOK},
		{name: "task queue reaches status check", path: "/api/checkout/statuscheck/sess-1/42", queueName: "default", expectedCode: http.StatusOK},
		{name: "outsider is refused status check", path: "/api/checkout/statuscheck/sess-1/42", session: customer, expectedCode: http.StatusForbidden},
		{name: "session store failure", path: "/checkout", loadErr: fmt.Errorf("store down"), expectedCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// given
			loader := NewMockSessionLoader(ctrl)
			loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(tc.session, tc.loadErr)

			router := mux.NewRouter()
			router.Use(Middleware(DefaultPolicy(), loader))
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tc.session.UID, session.FromContext(r.Context()).UID)
				w.WriteHeader(http.StatusOK)
			}
			router.HandleFunc("/checkout", handler)
			router.HandleFunc("/session", handler)
			router.HandleFunc("/api/checkout/statuscheck/{sessionUID}/{orderID}", handler)

			// when
			request, _ := http.NewRequest(http.MethodGet, tc.path, nil)
			if tc.queueName != "" {
				request.Header.Set(myqueue.QueueNameHeader, tc.queueName)
			}
			response := httptest.NewRecorder()
			router.ServeHTTP(response, request)

			// then
			assert.Equal(t, tc.expectedCode, response.Code)
		})
	}
}
