package mypubsub

import (
	"context"
	"os"
	"sync"

	"github.com/MarcGrol/equipmentshop/lib/mylog"
)

// FakePubSub keeps published messages in memory. Used when running outside Google Cloud.
type FakePubSub struct {
	sync.Mutex
	logger        mylog.Logger
	topics        map[string]bool
	subscriptions map[string]string
	messages      map[string][]string
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = func(c context.Context) (PubSub, func(), error) {
			return NewFake(), func() {}, nil
		}
	}
}

func NewFake() *FakePubSub {
	return &FakePubSub{
		logger:        mylog.New("pubsub"),
		topics:        map[string]bool{},
		subscriptions: map[string]string{},
		messages:      map[string][]string{},
	}
}

func (ps *FakePubSub) Subscribe(c context.Context, topic string, urlToPostTo string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.topics[topic] = true
	ps.subscriptions[topic] = urlToPostTo
	ps.logger.Log(c, topic, mylog.SeverityInfo, "Subscribed %s to topic %s", urlToPostTo, topic)

	return nil
}

func (ps *FakePubSub) CreateTopic(c context.Context, topic string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.topics[topic] = true

	return nil
}

func (ps *FakePubSub) Publish(c context.Context, topic string, data string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.messages[topic] = append(ps.messages[topic], data)
	ps.logger.Log(c, topic, mylog.SeverityInfo, "Published message on topic %s", topic)

	return nil
}

func (ps *FakePubSub) Messages(topic string) []string {
	ps.Lock()
	defer ps.Unlock()

	return append([]string{}, ps.messages[topic]...)
}
