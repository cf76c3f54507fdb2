package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"thoughts-board/internal/repository"
	"thoughts-board/internal/tasks"
)

// ThoughtEventHandler 把 thought 事件发布到 feed 频道
type ThoughtEventHandler struct {
	feedRepo repository.FeedRepository
}

// NewThoughtEventHandler 创建 Handler 实例
func NewThoughtEventHandler(feedRepo repository.FeedRepository) *ThoughtEventHandler {
	return &ThoughtEventHandler{feedRepo: feedRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *ThoughtEventHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
	})

	event, err := tasks.ParseThoughtEventTask(t.Payload())
	if err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := h.feedRepo.Publish(ctx, event); err != nil {
		logCtx.WithError(err).WithField("thought_id", event.Thought.ID).Error("Failed to publish thought event")
		return fmt.Errorf("failed to publish event for thought %d: %w", event.Thought.ID, err)
	}

	logCtx.WithFields(logrus.Fields{
		"thought_id": event.Thought.ID,
		"event_type": event.Type,
	}).Debug("Thought event published")
	return nil
}
