package mypublisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/equipmentshop/lib/myevents"
	"github.com/MarcGrol/equipmentshop/lib/mypubsub"
	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
)

type itemAdded struct {
	BasketUID string
	ItemUID   string
}

func (e itemAdded) GetEventTypeName() string {
	return "basket.itemAdded"
}

func (e itemAdded) GetAggregateName() string {
	return e.BasketUID
}

func TestTransactionalPublisher(t *testing.T) {
	c := context.TODO()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	outbox, _, _ := mystore.NewInMemoryStore[myevents.EventEnvelope](c)
	queue := myqueue.NewFake()
	pubsub := mypubsub.NewFake()

	sut := NewWithOutbox(outbox, pubsub, queue, nower)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	t.Run("Publish stores in outbox and enqueues trigger", func(t *testing.T) {
		// when
		err := sut.Publish(c, "basket", itemAdded{BasketUID: "b1", ItemUID: "i1"})
		assert.NoError(t, err)
		err = sut.Publish(c, "basket", itemAdded{BasketUID: "b1", ItemUID: "i1"})
		assert.NoError(t, err)

		// then
		envelopes, _ := outbox.List(c)
		assert.Len(t, envelopes, 1)
		assert.False(t, envelopes[0].Published)
		assert.Equal(t, mytime.ExampleTime, envelopes[0].CreatedAt)

		tasks := queue.Tasks()
		assert.Len(t, tasks, 1)
		assert.Equal(t, "/pubsub/basket/"+envelopes[0].UID, tasks[0].WebhookURLPath)
	})

	t.Run("Trigger publishes pending events", func(t *testing.T) {
		// given
		envelopes, _ := outbox.List(c)

		// when
		request, _ := http.NewRequest(http.MethodPut, "/pubsub/basket/"+envelopes[0].UID, nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, http.StatusOK, response.Code)

		messages := pubsub.Messages("basket")
		assert.Len(t, messages, 1)
		published := myevents.EventEnvelope{}
		err := json.Unmarshal([]byte(messages[0]), &published)
		assert.NoError(t, err)
		assert.Equal(t, "basket.itemAdded", published.EventTypeName)
		assert.Equal(t, "b1", published.AggregateUID)

		envelopes, _ = outbox.List(c)
		assert.True(t, envelopes[0].Published)
	})

	t.Run("Trigger is idempotent", func(t *testing.T) {
		request, _ := http.NewRequest(http.MethodPut, "/pubsub/basket/other", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, http.StatusOK, response.Code)
		assert.Len(t, pubsub.Messages("basket"), 1)
	})
}
