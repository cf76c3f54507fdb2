package repository

import (
	"context"

	"thoughts-board/internal/domain"
)

// ThoughtRepository 定义了 thought 数据的存储和查询操作。
// 所有列表查询都按 created_at 倒序返回。
type ThoughtRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Thought, error)

	// ListLatest 返回最新的 limit 条记录。
	ListLatest(ctx context.Context, limit int) ([]domain.Thought, error)

	// ListPage 返回跳过 offset 条之后的 limit 条记录。
	ListPage(ctx context.Context, offset, limit int) ([]domain.Thought, error)

	// ListByMinHearts 返回 hearts >= min 的记录。
	ListByMinHearts(ctx context.Context, min float64) ([]domain.Thought, error)

	// SearchMessage 对 message 做大小写不敏感的子串匹配。
	SearchMessage(ctx context.Context, word string) ([]domain.Thought, error)

	Create(ctx context.Context, thought *domain.Thought) error

	// IncrementHearts 原子地将 hearts 加一并返回更新后的记录。
	IncrementHearts(ctx context.Context, id uint) (*domain.Thought, error)

	// UpdateOwned 只在 id 与 author 同时匹配时更新，否则返回 ErrThoughtNotFound。
	UpdateOwned(ctx context.Context, id uint, author string, update domain.ThoughtUpdate) (*domain.Thought, error)

	// DeleteOwned 只在 id 与 author 同时匹配时删除，否则返回 ErrThoughtNotFound。
	DeleteOwned(ctx context.Context, id uint, author string) error

	// DeleteAll 清空所有记录（仅用于种子数据）。
	DeleteAll(ctx context.Context) error
}
