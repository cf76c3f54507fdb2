package domain

import "time"

// ThoughtEventType 标识 feed 中的事件种类。
type ThoughtEventType string

const (
	ThoughtCreated ThoughtEventType = "thought.created"
	ThoughtLiked   ThoughtEventType = "thought.liked"
	ThoughtUpdated ThoughtEventType = "thought.updated"
	ThoughtDeleted ThoughtEventType = "thought.deleted"
)

// ThoughtEvent 是推送给 WebSocket 客户端的消息。
// 删除事件携带删除前的记录。
type ThoughtEvent struct {
	Type       ThoughtEventType `json:"type"`
	Thought    Thought          `json:"thought"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// NewThoughtEvent 以当前时间构造事件。
func NewThoughtEvent(eventType ThoughtEventType, thought Thought) ThoughtEvent {
	return ThoughtEvent{
		Type:       eventType,
		Thought:    thought,
		OccurredAt: time.Now().UTC(),
	}
}
