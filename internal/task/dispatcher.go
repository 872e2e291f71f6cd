package task

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
	"github.com/hibiken/asynq"
)

const enqueueTimeout = 5 * time.Second

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher hands notifications to the worker through Redis.
type Dispatcher struct {
	client enqueuer
	closer func() error
	wg     sync.WaitGroup
}

// compile-time check
var _ upload.NotificationDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c, closer: c.Close}
}

// Dispatch enqueues in the background so a slow Redis never delays the response.
func (d *Dispatcher) Dispatch(ctx context.Context, msg model.Notification) {
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		t, err := NewSendNotificationTask(msg)
		if err != nil {
			logger.Errorf(detached, "❌  Could not build notification task: %v", err)
			return
		}

		enqCtx, cancel := context.WithTimeout(detached, enqueueTimeout)
		defer cancel()
		info, err := d.client.EnqueueContext(enqCtx, t)
		if err != nil {
			logger.Errorf(detached, "❌  Could not enqueue notification task: %v", err)
			return
		}
		logger.Debugf(detached, "enqueued notification task #%s", info.ID)
	}()
}

// Wait blocks until pending enqueues are done.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) Close() error {
	d.Wait()
	if d.closer == nil {
		return nil
	}
	return d.closer()
}
