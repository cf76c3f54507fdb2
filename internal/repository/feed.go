package repository

import (
	"context"

	"thoughts-board/internal/domain"
)

// FeedRepository 定义了 thought 事件的发布与订阅，通常由 Redis Pub/Sub 实现。
type FeedRepository interface {
	// Publish 将事件发布到 feed 频道。
	Publish(ctx context.Context, event domain.ThoughtEvent) error

	// Subscribe 订阅 feed 频道，返回原始消息通道和关闭函数。
	// 调用关闭函数后通道会被关闭。
	Subscribe(ctx context.Context) (<-chan []byte, func() error)
}
