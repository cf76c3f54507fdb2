package service

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"thoughts-board/internal/domain"
	"thoughts-board/internal/repository"
)

const (
	// LatestLimit 是 GET /thoughts 返回的条数
	LatestLimit = 20
	// PageSize 是分页接口的固定页大小
	PageSize = 5
)

// EventDispatcher 将 thought 变更事件交给 feed 投递。
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.ThoughtEvent) error
}

// ThoughtService 负责 thought 的查询、创建、点赞、编辑和删除。
type ThoughtService struct {
	thoughtRepo repository.ThoughtRepository
	events      EventDispatcher // 可以为 nil，表示不推送 feed
}

// NewThoughtService 创建 ThoughtService 实例。
func NewThoughtService(thoughtRepo repository.ThoughtRepository, events EventDispatcher) *ThoughtService {
	if thoughtRepo == nil {
		panic("ThoughtRepository cannot be nil for ThoughtService")
	}
	return &ThoughtService{thoughtRepo: thoughtRepo, events: events}
}

// Latest 返回最新的 LatestLimit 条 thought。
func (s *ThoughtService) Latest(ctx context.Context) ([]domain.Thought, error) {
	thoughts, err := s.thoughtRepo.ListLatest(ctx, LatestLimit)
	if err != nil {
		logrus.WithError(err).Error("Failed to list latest thoughts")
		return nil, ErrInternalServer
	}
	return thoughts, nil
}

// Search 对 message 做大小写不敏感的子串搜索。
func (s *ThoughtService) Search(ctx context.Context, word string) ([]domain.Thought, error) {
	if word == "" {
		return nil, newValidationError("Search word is required")
	}
	thoughts, err := s.thoughtRepo.SearchMessage(ctx, word)
	if err != nil {
		logrus.WithError(err).WithField("word", word).Error("Failed to search thoughts")
		return nil, ErrInternalServer
	}
	return thoughts, nil
}

// WithMinHearts 返回 hearts >= min 的 thought。
func (s *ThoughtService) WithMinHearts(ctx context.Context, min float64) ([]domain.Thought, error) {
	thoughts, err := s.thoughtRepo.ListByMinHearts(ctx, min)
	if err != nil {
		logrus.WithError(err).WithField("min", min).Error("Failed to filter thoughts by hearts")
		return nil, ErrInternalServer
	}
	return thoughts, nil
}

// Page 返回第 page 页（从 1 开始，每页 PageSize 条）。
func (s *ThoughtService) Page(ctx context.Context, page int) ([]domain.Thought, error) {
	if page < 1 {
		return nil, newValidationError("Page must be 1 or more")
	}
	// 超出 offset 可表示范围的页码必然为空
	if page > math.MaxInt32/PageSize {
		return []domain.Thought{}, nil
	}
	thoughts, err := s.thoughtRepo.ListPage(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		logrus.WithError(err).WithField("page", page).Error("Failed to list thoughts page")
		return nil, ErrInternalServer
	}
	return thoughts, nil
}

// Get 根据 ID 返回单条 thought。
func (s *ThoughtService) Get(ctx context.Context, id uint) (*domain.Thought, error) {
	thought, err := s.thoughtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return thought, nil
}

// Create 以 author 的身份创建 thought。hearts 为 nil 时默认为 0。
func (s *ThoughtService) Create(ctx context.Context, author *domain.User, message string, hearts *int) (*domain.Thought, error) {
	logCtx := logrus.WithField("author", author.Username)

	thought := &domain.Thought{Author: author.Username}
	msg, err := validateMessage(message)
	if err != nil {
		return nil, err
	}
	thought.Message = msg
	if hearts != nil {
		if *hearts < 0 {
			return nil, newValidationError("Hearts cannot be negative")
		}
		thought.Hearts = *hearts
	}

	if err := s.thoughtRepo.Create(ctx, thought); err != nil {
		logCtx.WithError(err).Error("Failed to create thought")
		return nil, ErrInternalServer
	}

	logCtx.WithField("thought_id", thought.ID).Info("Thought created")
	s.dispatch(ctx, domain.ThoughtCreated, *thought)
	return thought, nil
}

// Like 将 hearts 加一。任何已认证用户都可以点赞，不做所有权检查。
func (s *ThoughtService) Like(ctx context.Context, id uint) (*domain.Thought, error) {
	thought, err := s.thoughtRepo.IncrementHearts(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	s.dispatch(ctx, domain.ThoughtLiked, *thought)
	return thought, nil
}

// Update 对 requester 自己的 thought 做部分更新。
func (s *ThoughtService) Update(ctx context.Context, requester *domain.User, id uint, update domain.ThoughtUpdate) (*domain.Thought, error) {
	logCtx := logrus.WithFields(logrus.Fields{"thought_id": id, "username": requester.Username})

	if update.Empty() {
		return nil, newValidationError("Nothing to update: provide message and/or hearts")
	}
	if update.Message != nil {
		msg, err := validateMessage(*update.Message)
		if err != nil {
			return nil, err
		}
		update.Message = &msg
	}
	if update.Hearts != nil && *update.Hearts < 0 {
		return nil, newValidationError("Hearts cannot be negative")
	}

	if _, err := s.authorizeOwner(ctx, requester, id); err != nil {
		return nil, err
	}

	updated, err := s.thoughtRepo.UpdateOwned(ctx, id, requester.Username, update)
	if err != nil {
		// 检查与写入之间被删除
		return nil, s.mapLookupError(err, id)
	}

	logCtx.Info("Thought updated")
	s.dispatch(ctx, domain.ThoughtUpdated, *updated)
	return updated, nil
}

// Delete 删除 requester 自己的 thought，返回被删除的记录。
func (s *ThoughtService) Delete(ctx context.Context, requester *domain.User, id uint) (*domain.Thought, error) {
	logCtx := logrus.WithFields(logrus.Fields{"thought_id": id, "username": requester.Username})

	thought, err := s.authorizeOwner(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if err := s.thoughtRepo.DeleteOwned(ctx, id, requester.Username); err != nil {
		return nil, s.mapLookupError(err, id)
	}

	logCtx.Info("Thought deleted")
	s.dispatch(ctx, domain.ThoughtDeleted, *thought)
	return thought, nil
}

// authorizeOwner 是所有权守卫：不存在返回 ErrThoughtNotFound，
// 作者与请求者不一致返回 ErrForbidden。
func (s *ThoughtService) authorizeOwner(ctx context.Context, requester *domain.User, id uint) (*domain.Thought, error) {
	thought, err := s.thoughtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	if !thought.IsAuthoredBy(requester.Username) {
		logrus.WithFields(logrus.Fields{
			"thought_id": id,
			"author":     thought.Author,
			"username":   requester.Username,
		}).Warn("Ownership check failed")
		return nil, ErrForbidden
	}
	return thought, nil
}

func (s *ThoughtService) mapLookupError(err error, id uint) error {
	if errors.Is(err, repository.ErrThoughtNotFound) {
		return ErrThoughtNotFound
	}
	logrus.WithError(err).WithField("thought_id", id).Error("Thought repository error")
	return ErrInternalServer
}

// dispatch 投递 feed 事件，失败只记录日志，不影响请求结果。
func (s *ThoughtService) dispatch(ctx context.Context, eventType domain.ThoughtEventType, thought domain.Thought) {
	if s.events == nil {
		return
	}
	if err := s.events.Dispatch(ctx, domain.NewThoughtEvent(eventType, thought)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"thought_id": thought.ID,
			"event_type": eventType,
		}).Warn("Failed to dispatch thought event")
	}
}

func validateMessage(message string) (string, error) {
	msg := domain.NormalizeMessage(message)
	if msg == "" {
		return "", newValidationError("Message is required")
	}
	if !domain.MessageLengthValid(msg) {
		return "", newValidationError("Message must be between 5 and 140 characters")
	}
	return msg, nil
}
