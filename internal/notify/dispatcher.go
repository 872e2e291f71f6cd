package notify

import (
	"context"
	"sync"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

type Sender interface {
	Send(ctx context.Context, msg model.Notification) error
}

// AsyncDispatcher sends notifications from a goroutine detached from the request.
type AsyncDispatcher struct {
	sender Sender
	wg     sync.WaitGroup
}

// compile-time check: *AsyncDispatcher must satisfy upload.NotificationDispatcher
var _ upload.NotificationDispatcher = (*AsyncDispatcher)(nil)

func NewAsyncDispatcher(sender Sender) *AsyncDispatcher {
	return &AsyncDispatcher{sender: sender}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, msg model.Notification) {
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sender.Send(detached, msg); err != nil {
			logger.Error(detached, "❌  Error sending webhook to Microsoft Teams", "err", err)
		}
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
