package mocks

import (
	context "context"

	domain "thoughts-board/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// ThoughtRepository is a mock type for the ThoughtRepository type
type ThoughtRepository struct {
	mock.Mock
}

func thoughtOrNil(v interface{}) *domain.Thought {
	if v == nil {
		return nil
	}
	return v.(*domain.Thought)
}

func thoughtsOrNil(v interface{}) []domain.Thought {
	if v == nil {
		return nil
	}
	return v.([]domain.Thought)
}

// Create provides a mock function with given fields: ctx, thought
func (_m *ThoughtRepository) Create(ctx context.Context, thought *domain.Thought) error {
	ret := _m.Called(ctx, thought)
	return ret.Error(0)
}

// DeleteAll provides a mock function with given fields: ctx
func (_m *ThoughtRepository) DeleteAll(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// DeleteOwned provides a mock function with given fields: ctx, id, author
func (_m *ThoughtRepository) DeleteOwned(ctx context.Context, id uint, author string) error {
	ret := _m.Called(ctx, id, author)
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *ThoughtRepository) FindByID(ctx context.Context, id uint) (*domain.Thought, error) {
	ret := _m.Called(ctx, id)
	return thoughtOrNil(ret.Get(0)), ret.Error(1)
}

// IncrementHearts provides a mock function with given fields: ctx, id
func (_m *ThoughtRepository) IncrementHearts(ctx context.Context, id uint) (*domain.Thought, error) {
	ret := _m.Called(ctx, id)
	return thoughtOrNil(ret.Get(0)), ret.Error(1)
}

// ListByMinHearts provides a mock function with given fields: ctx, min
func (_m *ThoughtRepository) ListByMinHearts(ctx context.Context, min float64) ([]domain.Thought, error) {
	ret := _m.Called(ctx, min)
	return thoughtsOrNil(ret.Get(0)), ret.Error(1)
}

// ListLatest provides a mock function with given fields: ctx, limit
func (_m *ThoughtRepository) ListLatest(ctx context.Context, limit int) ([]domain.Thought, error) {
	ret := _m.Called(ctx, limit)
	return thoughtsOrNil(ret.Get(0)), ret.Error(1)
}

// ListPage provides a mock function with given fields: ctx, offset, limit
func (_m *ThoughtRepository) ListPage(ctx context.Context, offset int, limit int) ([]domain.Thought, error) {
	ret := _m.Called(ctx, offset, limit)
	return thoughtsOrNil(ret.Get(0)), ret.Error(1)
}

// SearchMessage provides a mock function with given fields: ctx, word
func (_m *ThoughtRepository) SearchMessage(ctx context.Context, word string) ([]domain.Thought, error) {
	ret := _m.Called(ctx, word)
	return thoughtsOrNil(ret.Get(0)), ret.Error(1)
}

// UpdateOwned provides a mock function with given fields: ctx, id, author, update
func (_m *ThoughtRepository) UpdateOwned(ctx context.Context, id uint, author string, update domain.ThoughtUpdate) (*domain.Thought, error) {
	ret := _m.Called(ctx, id, author, update)
	return thoughtOrNil(ret.Get(0)), ret.Error(1)
}
