package myqueue

import (
	"context"
	"os"
	"sync"

	"github.com/MarcGrol/equipmentshop/lib/mylog"
)

// FakeTaskQueue only records tasks. Used when running outside Google Cloud.
type FakeTaskQueue struct {
	sync.Mutex
	logger mylog.Logger
	tasks  []Task
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = func(c context.Context) (TaskQueuer, func(), error) {
			return NewFake(), func() {}, nil
		}
	}
}

func NewFake() *FakeTaskQueue {
	return &FakeTaskQueue{
		logger: mylog.New("queue"),
	}
}

func (q *FakeTaskQueue) Enqueue(c context.Context, task Task) error {
	q.Lock()
	defer q.Unlock()

	for _, t := range q.tasks {
		if t.UID == task.UID {
			return nil
		}
	}
	q.tasks = append(q.tasks, task)
	q.logger.Log(c, task.UID, mylog.SeverityInfo, "Enqueued task %s for %s", task.UID, task.WebhookURLPath)

	return nil
}

func (q *FakeTaskQueue) Tasks() []Task {
	q.Lock()
	defer q.Unlock()

	return append([]Task{}, q.tasks...)
}
