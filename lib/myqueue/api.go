package myqueue

import (
	"context"
	"time"
)

// Task is an http PUT to a path of this service, executed once after Delay.
// Tasks with the same UID are de-duplicated.
type Task struct {
	UID            string
	WebhookURLPath string
	Payload        []byte
	Delay          time.Duration
}

// QueueNameHeader is set by the task queue on every task it delivers. App Engine
// strips it from requests coming from outside.
const QueueNameHeader = "X-AppEngine-QueueName"

var New func(c context.Context) (TaskQueuer, func(), error)

//go:generate mockgen -source=api.go -package myqueue -destination queuer_mock.go TaskQueuer
type TaskQueuer interface {
	Enqueue(c context.Context, task Task) error
}
