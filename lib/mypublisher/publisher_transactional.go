package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/equipmentshop/lib/mycontext"
	"github.com/MarcGrol/equipmentshop/lib/myevents"
	"github.com/MarcGrol/equipmentshop/lib/myhttp"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/mypubsub"
	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
)

// TransactionalPublisher stores events in an outbox within the caller's transaction.
// A queued trigger publishes them on pubsub afterwards.
type TransactionalPublisher struct {
	outbox    mystore.Store[myevents.EventEnvelope]
	queue     myqueue.TaskQueuer
	enveloper enveloper
	pubsub    mypubsub.PubSub
	logger    mylog.Logger
}

func New(c context.Context, pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) (*TransactionalPublisher, func(), error) {
	store, storeCleanup, err := mystore.New[myevents.EventEnvelope](c)
	if err != nil {
		return nil, nil, err
	}

	return NewWithOutbox(store, pubsub, queue, nower), storeCleanup, nil
}

func NewWithOutbox(outbox mystore.Store[myevents.EventEnvelope], pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) *TransactionalPublisher {
	return &TransactionalPublisher{
		outbox:    outbox,
		queue:     queue,
		enveloper: newEnveloper(nower),
		pubsub:    pubsub,
		logger:    mylog.New("publisher"),
	}
}

func (p *TransactionalPublisher) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/pubsub/{topic}/{uid}", p.processTriggerPage()).Methods("PUT")
}

func (p *TransactionalPublisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *TransactionalPublisher) Subscribe(c context.Context, topicName string, urlToPostTo string) error {
	return p.pubsub.Subscribe(c, topicName, urlToPostTo)
}

func (p *TransactionalPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}
	err = p.outbox.Put(c, envelope.UID, envelope)
	if err != nil {
		return fmt.Errorf("error storing envelope: %s", err)
	}

	err = p.queue.Enqueue(c, myqueue.Task{
		UID:            envelope.UID,
		WebhookURLPath: fmt.Sprintf("/pubsub/%s/%s", envelope.Topic, envelope.UID),
		Payload:        []byte{},
	})
	if err != nil {
		return fmt.Errorf("error queueing publication-trigger %s: %s", envelope.UID, err)
	}

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Enqueued event %s", envelope.String())

	return nil
}

func (p *TransactionalPublisher) processTriggerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(p.logger)

		topicName := mux.Vars(r)["topic"]
		eventUID := mux.Vars(r)["uid"]

		published, err := p.processTrigger(c, topicName, eventUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Successfully published %d events", published),
		})
	}
}

// processTrigger publishes every pending envelope, not only the one that triggered it.
// This catches up on envelopes whose trigger got lost.
func (p *TransactionalPublisher) processTrigger(c context.Context, topicName string, uid string) (int, error) {
	published := 0
	err := p.outbox.RunInTransaction(c, func(c context.Context) error {
		envelopes, err := p.outbox.Query(c, []mystore.Filter{{Field: "Published", Compare: "=", Value: false}}, "CreatedAt")
		if err != nil {
			return fmt.Errorf("error fetching envelopes: %s", err)
		}
		p.logger.Log(c, uid, mylog.SeverityInfo, "Trigger for %s/%s found %d unpublished events", topicName, uid, len(envelopes))

		for _, envelope := range envelopes {
			jsonBytes, err := json.Marshal(envelope)
			if err != nil {
				return fmt.Errorf("error serializing event: %s", err)
			}

			err = p.pubsub.Publish(c, envelope.Topic, string(jsonBytes))
			if err != nil {
				return fmt.Errorf("error publishing event: %s", err)
			}

			envelope.Published = true
			err = p.outbox.Put(c, envelope.UID, envelope)
			if err != nil {
				return fmt.Errorf("error storing envelope: %s", err)
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return published, nil
}
