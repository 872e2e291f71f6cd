package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/hibiken/asynq"
)

// Dispatcher records notifications instead of delivering them.
type Dispatcher struct {
	mu       sync.Mutex
	Called   bool
	Messages []model.Notification
}

func (m *Dispatcher) Dispatch(ctx context.Context, msg model.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called = true
	m.Messages = append(m.Messages, msg)
}

// Enqueuer stands in for the asynq client.
type Enqueuer struct {
	mu    sync.Mutex
	Err   error
	Tasks []*asynq.Task
	Opts  [][]asynq.Option
	Done  chan struct{}
}

func (m *Enqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.mu.Lock()
	m.Tasks = append(m.Tasks, task)
	m.Opts = append(m.Opts, opts)
	m.mu.Unlock()
	if m.Done != nil {
		defer func() { m.Done <- struct{}{} }()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func (m *Enqueuer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tasks)
}
