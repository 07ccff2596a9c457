package mypublisher

import (
	"encoding/json"

	"github.com/MarcGrol/equipmentshop/lib/myevents"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
)

// CreatePubsubMessage builds the body pubsub would push for event.
func CreatePubsubMessage(topic string, event myevents.Event) string {
	eventBytes, _ := json.Marshal(event)
	envelope := myevents.EventEnvelope{
		UID:           "123",
		CreatedAt:     mytime.ExampleTime,
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, _ := json.Marshal(envelope)

	req := myevents.PushRequest{
		Message: myevents.PushMessage{
			Data: envelopeBytes,
		},
		Subscription: topic,
	}

	reqBytes, _ := json.Marshal(req)

	return string(reqBytes)
}
