package repository

import (
	"context"

	"thoughts-board/internal/domain"
)

// UserRepository 定义了用户（凭证）数据的存储和检索操作。
type UserRepository interface {
	// FindByUsername 根据用户名精确查找用户，不存在时返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByAccessToken 根据访问令牌做一次点查询，不存在时返回 ErrUserNotFound。
	FindByAccessToken(ctx context.Context, token string) (*domain.User, error)

	// ExistsByUsernameOrEmail 在一次查询中检查用户名或邮箱是否已被占用。
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Save 创建或更新用户。违反唯一约束时返回 ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error
}
