package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// 消息长度限制（按字符计，包含边界）
const (
	MessageMinLength = 5
	MessageMaxLength = 140
)

// Thought 表示用户发布的一条短消息。
type Thought struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Message    string    `gorm:"type:varchar(140);not null" json:"message"`
	Hearts     int       `gorm:"not null;default:0" json:"hearts"`
	Author     string    `gorm:"type:varchar(191);index;not null" json:"author"` // 作者用户名，即所有权键
	SearchText string    `gorm:"type:varchar(560);not null;default:''" json:"-"` // message 的小写形式，仅用于搜索
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// NormalizeMessage 去掉首尾空白。
func NormalizeMessage(message string) string {
	return strings.TrimSpace(message)
}

// FoldMessage 返回用于大小写不敏感搜索的形式，入库和查询两侧都必须使用它。
func FoldMessage(message string) string {
	return strings.ToLower(message)
}

// MessageLengthValid 判断已规范化的消息长度是否在允许范围内。
func MessageLengthValid(message string) bool {
	n := utf8.RuneCountInString(message)
	return n >= MessageMinLength && n <= MessageMaxLength
}

// IsAuthoredBy 精确比较作者，不做大小写折叠。
func (t *Thought) IsAuthoredBy(username string) bool {
	return t.Author == username
}

// ThoughtUpdate 描述一次部分更新，nil 字段保持不变。
type ThoughtUpdate struct {
	Message *string
	Hearts  *int
}

// Empty 表示没有任何需要更新的字段。
func (u ThoughtUpdate) Empty() bool {
	return u.Message == nil && u.Hearts == nil
}
