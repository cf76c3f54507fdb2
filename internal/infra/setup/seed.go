package setup

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"thoughts-board/internal/domain"
	"thoughts-board/internal/repository"
)

// sampleThoughts 是重置数据库后写入的示例数据
var sampleThoughts = []struct {
	message string
	hearts  int
}{
	{"This is a test one", 0},
	{"This is a test two", 7},
	{"This is a test 3", 5},
}

// SeedThoughts 清空 thoughts 并写入示例数据，作者统一为 author。
func SeedThoughts(ctx context.Context, repo repository.ThoughtRepository, author string) error {
	if author == "" {
		return fmt.Errorf("seed author cannot be empty")
	}
	logrus.Warn("Resetting database: deleting all thoughts")
	if err := repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear thoughts: %w", err)
	}
	for _, s := range sampleThoughts {
		thought := &domain.Thought{Message: s.message, Hearts: s.hearts, Author: author}
		if err := repo.Create(ctx, thought); err != nil {
			return fmt.Errorf("failed to seed thought %q: %w", s.message, err)
		}
	}
	logrus.WithFields(logrus.Fields{"count": len(sampleThoughts), "author": author}).Info("Database seeded")
	return nil
}
