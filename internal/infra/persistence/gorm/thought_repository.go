package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"thoughts-board/internal/domain"
	"thoughts-board/internal/repository"
)

// likeEscaper 转义 LIKE 通配符，配合 ESCAPE '!' 使用（MySQL 与 SQLite 通用）
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// GormThoughtRepository 是 ThoughtRepository 接口的 GORM 实现
type GormThoughtRepository struct {
	db *gorm.DB
}

// NewGormThoughtRepository 创建 GormThoughtRepository 实例
func NewGormThoughtRepository(db *gorm.DB) *GormThoughtRepository {
	if db == nil {
		panic("database connection cannot be nil for GormThoughtRepository")
	}
	return &GormThoughtRepository{db: db}
}

// newest 返回按创建时间倒序的查询，id 作为同一时间戳下的次序
func (r *GormThoughtRepository) newest(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Thought{}).Order("created_at DESC").Order("id DESC")
}

// FindByID 实现根据 ID 查找 thought
func (r *GormThoughtRepository) FindByID(ctx context.Context, id uint) (*domain.Thought, error) {
	var thought domain.Thought
	err := r.db.WithContext(ctx).First(&thought, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrThoughtNotFound
		}
		return nil, fmt.Errorf("gorm: find thought by id %d: %w", id, err)
	}
	return &thought, nil
}

// ListLatest 实现获取最新的 limit 条 thought
func (r *GormThoughtRepository) ListLatest(ctx context.Context, limit int) ([]domain.Thought, error) {
	thoughts := []domain.Thought{}
	if err := r.newest(ctx).Limit(limit).Find(&thoughts).Error; err != nil {
		return nil, fmt.Errorf("gorm: list latest %d thoughts: %w", limit, err)
	}
	return thoughts, nil
}

// ListPage 实现分页查询
func (r *GormThoughtRepository) ListPage(ctx context.Context, offset, limit int) ([]domain.Thought, error) {
	thoughts := []domain.Thought{}
	if err := r.newest(ctx).Offset(offset).Limit(limit).Find(&thoughts).Error; err != nil {
		return nil, fmt.Errorf("gorm: list thoughts (offset %d, limit %d): %w", offset, limit, err)
	}
	return thoughts, nil
}

// ListByMinHearts 实现按 hearts 下限过滤
func (r *GormThoughtRepository) ListByMinHearts(ctx context.Context, min float64) ([]domain.Thought, error) {
	thoughts := []domain.Thought{}
	if err := r.newest(ctx).Where("hearts >= ?", min).Find(&thoughts).Error; err != nil {
		return nil, fmt.Errorf("gorm: list thoughts with hearts >= %v: %w", min, err)
	}
	return thoughts, nil
}

// SearchMessage 实现大小写不敏感的子串搜索，用户输入只作为字面量参与匹配。
// 两侧都使用 domain.FoldMessage 折叠，MySQL 与 SQLite 结果一致。
func (r *GormThoughtRepository) SearchMessage(ctx context.Context, word string) ([]domain.Thought, error) {
	pattern := "%" + likeEscaper.Replace(domain.FoldMessage(word)) + "%"
	thoughts := []domain.Thought{}
	err := r.newest(ctx).Where("search_text LIKE ? ESCAPE '!'", pattern).Find(&thoughts).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: search thoughts for '%s': %w", word, err)
	}
	return thoughts, nil
}

// Create 实现创建 thought
func (r *GormThoughtRepository) Create(ctx context.Context, thought *domain.Thought) error {
	thought.SearchText = domain.FoldMessage(thought.Message)
	if err := r.db.WithContext(ctx).Create(thought).Error; err != nil {
		return fmt.Errorf("gorm: create thought (author: %s): %w", thought.Author, err)
	}
	return nil
}

// IncrementHearts 使用 hearts = hearts + 1 原子递增
func (r *GormThoughtRepository) IncrementHearts(ctx context.Context, id uint) (*domain.Thought, error) {
	result := r.db.WithContext(ctx).Model(&domain.Thought{}).
		Where("id = ?", id).
		UpdateColumn("hearts", gorm.Expr("hearts + ?", 1))
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: increment hearts of thought %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrThoughtNotFound
	}
	return r.FindByID(ctx, id)
}

// UpdateOwned 实现带作者条件的部分更新
func (r *GormThoughtRepository) UpdateOwned(ctx context.Context, id uint, author string, update domain.ThoughtUpdate) (*domain.Thought, error) {
	fields := map[string]interface{}{}
	if update.Message != nil {
		fields["message"] = *update.Message
		fields["search_text"] = domain.FoldMessage(*update.Message)
	}
	if update.Hearts != nil {
		fields["hearts"] = *update.Hearts
	}
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	// RowsAffected 依赖 DSN 中的 clientFoundRows=true (MySQL)，值未变化时仍计为匹配
	result := r.db.WithContext(ctx).Model(&domain.Thought{}).
		Where("id = ? AND author = ?", id, author).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: update thought %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrThoughtNotFound
	}
	return r.FindByID(ctx, id)
}

// DeleteOwned 实现带作者条件的删除
func (r *GormThoughtRepository) DeleteOwned(ctx context.Context, id uint, author string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND author = ?", id, author).
		Delete(&domain.Thought{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete thought %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrThoughtNotFound
	}
	return nil
}

// DeleteAll 清空 thoughts 表
func (r *GormThoughtRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Thought{}).Error
	if err != nil {
		return fmt.Errorf("gorm: delete all thoughts: %w", err)
	}
	return nil
}
