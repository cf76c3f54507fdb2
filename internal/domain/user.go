// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// 与 users 表列宽一致（按字符计）
const (
	MaxUsernameLength = 191
	MaxEmailLength    = 191
)

// User 表示应用程序中的用户。
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"`
	Email       string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null" json:"email"`
	Password    string    `gorm:"type:text;not null" json:"-"` // bcrypt 哈希，绝不序列化
	AccessToken string    `gorm:"type:varchar(191);uniqueIndex:idx_access_token;not null" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
