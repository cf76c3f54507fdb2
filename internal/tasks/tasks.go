package tasks

import (
	"encoding/json"
	"fmt"

	"thoughts-board/internal/domain"
)

// 定义任务类型常量
const (
	TypeThoughtEvent = "thought:event" // thought 变更事件投递到 feed
)

// ThoughtEventPayload 定义了 feed 投递任务的数据结构
type ThoughtEventPayload struct {
	Event domain.ThoughtEvent
}

// NewThoughtEventTask 序列化 feed 投递任务的 payload
func NewThoughtEventTask(event domain.ThoughtEvent) ([]byte, error) {
	payloadBytes, err := json.Marshal(ThoughtEventPayload{Event: event})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal thought event payload: %w", err)
	}
	return payloadBytes, nil
}

// ParseThoughtEventTask 反序列化 payload
func ParseThoughtEventTask(payload []byte) (domain.ThoughtEvent, error) {
	var p ThoughtEventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return domain.ThoughtEvent{}, fmt.Errorf("failed to unmarshal thought event payload: %w", err)
	}
	return p.Event, nil
}
