package mypubsub

import (
	"context"
	"fmt"
	"os"
	"sync"

	"cloud.google.com/go/pubsub"

	"github.com/MarcGrol/equipmentshop/lib/mylog"
)

type gcloudPubSub struct {
	sync.Mutex
	client *pubsub.Client
	topics map[string]*pubsub.Topic
	logger mylog.Logger
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudPubSub
	}
}

func newGcloudPubSub(c context.Context) (PubSub, func(), error) {
	client, err := pubsub.NewClient(c, os.Getenv("GOOGLE_CLOUD_PROJECT"))
	if err != nil {
		return nil, func() {}, err
	}
	return &gcloudPubSub{
			client: client,
			topics: map[string]*pubsub.Topic{},
			logger: mylog.New("pubsub"),
		}, func() {
			client.Close()
		}, nil
}

func (ps *gcloudPubSub) Subscribe(c context.Context, topicName string, urlToPostTo string) error {
	err := ps.CreateTopic(c, topicName)
	if err != nil {
		return err
	}

	subscriptionID := topicName + "-push"
	exists, err := ps.client.Subscription(subscriptionID).Exists(c)
	if err != nil {
		return fmt.Errorf("error checking if subscription %s exists: %s", subscriptionID, err)
	}
	if exists {
		return nil
	}

	_, err = ps.client.CreateSubscription(c, subscriptionID, pubsub.SubscriptionConfig{
		Topic: ps.topic(topicName),
		PushConfig: pubsub.PushConfig{
			Endpoint: urlToPostTo,
		},
	})
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", topicName, err)
	}

	ps.logger.Log(c, topicName, mylog.SeverityInfo, "Subscribed %s to topic %s", urlToPostTo, topicName)

	return nil
}

func (ps *gcloudPubSub) CreateTopic(c context.Context, topicName string) error {
	exists, err := ps.topic(topicName).Exists(c)
	if err != nil {
		return fmt.Errorf("error checking if topic %s exists: %s", topicName, err)
	}

	if exists {
		return nil
	}

	_, err = ps.client.CreateTopic(c, topicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", topicName, err)
	}

	ps.logger.Log(c, topicName, mylog.SeverityInfo, "Created topic %s", topicName)

	return nil
}

func (ps *gcloudPubSub) Publish(c context.Context, topicName string, data string) error {
	_, err := ps.topic(topicName).Publish(c, &pubsub.Message{Data: []byte(data)}).Get(c)
	if err != nil {
		return fmt.Errorf("error publishing event on topic %s: %s", topicName, err)
	}

	return nil
}

func (ps *gcloudPubSub) topic(topicName string) *pubsub.Topic {
	ps.Lock()
	defer ps.Unlock()

	topic, found := ps.topics[topicName]
	if !found {
		topic = ps.client.Topic(topicName)
		ps.topics[topicName] = topic
	}
	return topic
}
