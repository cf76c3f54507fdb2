package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// 访问令牌的随机字节数范围。
// 下限保证 256 位熵；上限使 hex 编码后不超过 191 字符的唯一索引长度。
const (
	MinTokenBytes     = 32
	MaxTokenBytes     = 95
	DefaultTokenBytes = 64
)

// TokenIssuer 生成不透明的随机访问令牌。
type TokenIssuer struct {
	numBytes int
}

// NewTokenIssuer 在启动时校验令牌长度配置。
func NewTokenIssuer(numBytes int) (*TokenIssuer, error) {
	if numBytes < MinTokenBytes || numBytes > MaxTokenBytes {
		return nil, fmt.Errorf("token length must be between %d and %d bytes, got %d", MinTokenBytes, MaxTokenBytes, numBytes)
	}
	return &TokenIssuer{numBytes: numBytes}, nil
}

// Issue 返回 2*numBytes 个字符的 hex 字符串。
func (i *TokenIssuer) Issue() (string, error) {
	b := make([]byte, i.numBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes for access token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// TokenLength 返回生成的令牌字符长度。
func (i *TokenIssuer) TokenLength() int {
	return hex.EncodedLen(i.numBytes)
}
