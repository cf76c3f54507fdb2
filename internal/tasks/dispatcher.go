package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"thoughts-board/internal/domain"
)

// eventMaxRetry 是 feed 投递任务的最大重试次数
const eventMaxRetry = 3

// Enqueuer 是 asynq.Client 中被用到的部分
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher 把 thought 事件作为 asynq 任务入队
type AsynqDispatcher struct {
	client Enqueuer
}

// NewAsynqDispatcher 创建 AsynqDispatcher 实例
func NewAsynqDispatcher(client Enqueuer) *AsynqDispatcher {
	if client == nil {
		panic("asynq client cannot be nil for AsynqDispatcher")
	}
	return &AsynqDispatcher{client: client}
}

// Dispatch 实现 service.EventDispatcher
func (d *AsynqDispatcher) Dispatch(ctx context.Context, event domain.ThoughtEvent) error {
	payload, err := NewThoughtEventTask(event)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeThoughtEvent, payload)
	info, err := d.client.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(eventMaxRetry))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", TypeThoughtEvent, err)
	}
	logrus.WithFields(logrus.Fields{
		"task_id":    info.ID,
		"event_type": event.Type,
		"thought_id": event.Thought.ID,
	}).Debug("Thought event task enqueued")
	return nil
}
