package gormpersistence_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thoughts-board/internal/domain"
	gormpersistence "thoughts-board/internal/infra/persistence/gorm"
	"thoughts-board/internal/repository"
)

// seedThoughts 按时间顺序插入 n 条 thought，第 i 条的 hearts 为 i
func seedThoughts(t *testing.T, repo *gormpersistence.GormThoughtRepository, n int) []domain.Thought {
	t.Helper()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	created := make([]domain.Thought, 0, n)
	for i := 1; i <= n; i++ {
		th := &domain.Thought{
			Message:   fmt.Sprintf("thought number %d", i),
			Hearts:    i,
			Author:    "ann",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), th))
		created = append(created, *th)
	}
	return created
}

func TestGormThoughtRepository_ListLatestAndPage(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	seedThoughts(t, repo, 12)

	latest, err := repo.ListLatest(ctx, 20)
	require.NoError(t, err)
	require.Len(t, latest, 12)
	assert.Equal(t, "thought number 12", latest[0].Message, "最新的排在最前")
	assert.Equal(t, "thought number 1", latest[11].Message)

	page2, err := repo.ListPage(ctx, 5, 5)
	require.NoError(t, err)
	require.Len(t, page2, 5)
	assert.Equal(t, "thought number 7", page2[0].Message)

	page3, err := repo.ListPage(ctx, 10, 5)
	require.NoError(t, err)
	assert.Len(t, page3, 2)

	beyond, err := repo.ListPage(ctx, 100, 5)
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

func TestGormThoughtRepository_ListByMinHearts(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	seedThoughts(t, repo, 5)

	thoughts, err := repo.ListByMinHearts(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, thoughts, 3)

	thoughts, err = repo.ListByMinHearts(ctx, 4.5)
	require.NoError(t, err)
	require.Len(t, thoughts, 1)
	assert.Equal(t, 5, thoughts[0].Hearts)
}

func TestGormThoughtRepository_SearchMessage(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	for _, msg := range []string{"Hello World", "say hello again", "100% sure", "nothing here"} {
		require.NoError(t, repo.Create(ctx, &domain.Thought{Message: msg, Author: "ann"}))
	}

	found, err := repo.SearchMessage(ctx, "HELLO")
	require.NoError(t, err)
	assert.Len(t, found, 2, "搜索应大小写不敏感")

	found, err = repo.SearchMessage(ctx, "%")
	require.NoError(t, err)
	require.Len(t, found, 1, "通配符按字面量匹配")
	assert.Equal(t, "100% sure", found[0].Message)

	found, err = repo.SearchMessage(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGormThoughtRepository_SearchMessage_NonASCII(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Thought{Message: "ÉCOLE is great", Author: "ann"}))
	require.NoError(t, repo.Create(ctx, &domain.Thought{Message: "Straße nach école", Author: "ann"}))

	found, err := repo.SearchMessage(ctx, "école")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.SearchMessage(ctx, "STRASSE")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.SearchMessage(ctx, "STRAẞE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Straße nach école", found[0].Message)
}

func TestGormThoughtRepository_SearchFollowsUpdates(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	th := &domain.Thought{Message: "old wording here", Author: "ann"}
	require.NoError(t, repo.Create(ctx, th))

	msg := "Ünïcode wording"
	_, err := repo.UpdateOwned(ctx, th.ID, "ann", domain.ThoughtUpdate{Message: &msg})
	require.NoError(t, err)

	found, err := repo.SearchMessage(ctx, "ünï")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = repo.SearchMessage(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGormThoughtRepository_IncrementHearts(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	th := &domain.Thought{Message: "like me please", Author: "bob"}
	require.NoError(t, repo.Create(ctx, th))

	for i := 0; i < 3; i++ {
		_, err := repo.IncrementHearts(ctx, th.ID)
		require.NoError(t, err)
	}
	liked, err := repo.FindByID(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, liked.Hearts)

	_, err = repo.IncrementHearts(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrThoughtNotFound)
}

func TestGormThoughtRepository_UpdateOwned(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	th := &domain.Thought{Message: "first thought", Hearts: 2, Author: "ann"}
	require.NoError(t, repo.Create(ctx, th))

	msg := "edited thought"
	updated, err := repo.UpdateOwned(ctx, th.ID, "ann", domain.ThoughtUpdate{Message: &msg})
	require.NoError(t, err)
	assert.Equal(t, "edited thought", updated.Message)
	assert.Equal(t, 2, updated.Hearts, "未提供的字段保持不变")

	hearts := 100
	_, err = repo.UpdateOwned(ctx, th.ID, "bob", domain.ThoughtUpdate{Hearts: &hearts})
	assert.ErrorIs(t, err, repository.ErrThoughtNotFound, "作者不匹配时不写入")

	unchanged, err := repo.FindByID(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unchanged.Hearts)
}

func TestGormThoughtRepository_DeleteOwned(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	th := &domain.Thought{Message: "delete me soon", Author: "ann"}
	require.NoError(t, repo.Create(ctx, th))

	assert.ErrorIs(t, repo.DeleteOwned(ctx, th.ID, "bob"), repository.ErrThoughtNotFound)
	require.NoError(t, repo.DeleteOwned(ctx, th.ID, "ann"))

	_, err := repo.FindByID(ctx, th.ID)
	assert.ErrorIs(t, err, repository.ErrThoughtNotFound)
}

func TestGormThoughtRepository_DeleteAll(t *testing.T) {
	repo := gormpersistence.NewGormThoughtRepository(newTestDB(t))
	ctx := context.Background()
	seedThoughts(t, repo, 3)

	require.NoError(t, repo.DeleteAll(ctx))

	thoughts, err := repo.ListLatest(ctx, 20)
	require.NoError(t, err)
	assert.Empty(t, thoughts)
}
