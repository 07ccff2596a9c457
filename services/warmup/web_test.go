package warmup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/equipmentshop/lib/myvault"
)

func TestWarmup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Vault reachable", func(t *testing.T) {
		// given
		router, vault := setup(ctrl)
		vault.EXPECT().Get(gomock.Any(), "warmup").Return(myvault.Token{}, false, nil)

		// when
		response := get(router)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
	})

	t.Run("Vault down", func(t *testing.T) {
		// given
		router, vault := setup(ctrl)
		vault.EXPECT().Get(gomock.Any(), "warmup").Return(myvault.Token{}, false, fmt.Errorf("datastore unavailable"))

		// when
		response := get(router)

		// then
		assert.Equal(t, http.StatusInternalServerError, response.Code)
	})
}

func get(router *mux.Router) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setup(ctrl *gomock.Controller) (*mux.Router, *myvault.MockVaultReadWriter[myvault.Token]) {
	router := mux.NewRouter()
	vault := myvault.NewMockVaultReadWriter[myvault.Token](ctrl)
	NewService(vault).RegisterEndpoints(context.TODO(), router)
	return router, vault
}
