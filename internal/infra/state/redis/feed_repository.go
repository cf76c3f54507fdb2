package redisstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"thoughts-board/internal/domain"
)

// feedBufferSize 是订阅端转发通道的缓冲大小
const feedBufferSize = 64

// RedisFeedRepository 是 FeedRepository 接口的 Redis Pub/Sub 实现
type RedisFeedRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisFeedRepository 创建 RedisFeedRepository 实例
func NewRedisFeedRepository(client *redis.Client, keyPrefix string) *RedisFeedRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisFeedRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "thoughts:"
	}
	return &RedisFeedRepository{client: client, keyPrefix: keyPrefix}
}

// FeedChannel 返回 feed 使用的 Pub/Sub 频道名
func (r *RedisFeedRepository) FeedChannel() string {
	return r.keyPrefix + "thoughts:feed"
}

// Publish 将事件序列化后发布到 feed 频道
func (r *RedisFeedRepository) Publish(ctx context.Context, event domain.ThoughtEvent) error {
	channel := r.FeedChannel()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal %s event for thought %d: %w", event.Type, event.Thought.ID, err)
	}
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel":      channel,
			"payload_size": len(payload),
			"thought_id":   event.Thought.ID,
			"event_type":   event.Type,
		}).WithError(err).Error("Redis Publish failed")
		return fmt.Errorf("redis: failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe 订阅 feed 频道，把 *redis.Message 转成原始字节
func (r *RedisFeedRepository) Subscribe(ctx context.Context) (<-chan []byte, func() error) {
	sub := r.client.Subscribe(ctx, r.FeedChannel())
	out := make(chan []byte, feedBufferSize)
	go func() {
		defer close(out)
		// sub.Close() 之后 Channel() 会被关闭，循环随之退出
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, sub.Close
}
