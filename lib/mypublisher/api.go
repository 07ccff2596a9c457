package mypublisher

import (
	"context"

	"github.com/MarcGrol/equipmentshop/lib/myevents"
)

//go:generate mockgen -source=api.go -package mypublisher -destination publisher_mock.go Publisher
type Publisher interface {
	CreateTopic(c context.Context, topic string) error
	Subscribe(c context.Context, topic string, urlToPostTo string) error
	Publish(c context.Context, topic string, event myevents.Event) error
}
