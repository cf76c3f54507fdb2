package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"thoughts-board/internal/domain"
	"thoughts-board/internal/service"
)

const (
	// LegacyTokenHeader 是旧版客户端使用的自定义请求头，仅在显式开启时接受
	LegacyTokenHeader = "accessToken"

	userContextKey = "user"
)

// TokenAuthenticator 将访问令牌解析为用户
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth 返回一个 Gin 中间件，用于校验不透明访问令牌。
// allowLegacyHeader 为 true 时，在没有 Authorization 头的情况下接受 accessToken 头。
func Auth(authenticator TokenAuthenticator, allowLegacyHeader bool) gin.HandlerFunc {
	if authenticator == nil {
		panic("authenticator cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		// 1. 从请求头提取 Token，缺失或格式错误时不访问存储
		token, err := extractToken(c, allowLegacyHeader)
		if err != nil {
			if errors.Is(err, service.ErrMissingToken) {
				logrus.WithField("path", c.FullPath()).Debug("Auth middleware: Missing access token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			} else {
				logrus.WithField("path", c.FullPath()).Warn("Auth middleware: Malformed Authorization header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			}
			return
		}

		// 2. 点查询解析用户
		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				logrus.WithField("path", c.FullPath()).Warn("Auth middleware: Unknown access token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "loggedout": true})
				return
			}
			logrus.WithError(err).Error("Auth middleware: Failed to resolve access token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// 3. 将用户存入 Gin 上下文，供后续处理程序使用
		c.Set(userContextKey, user)
		logrus.WithField("user_id", user.ID).Debug("Auth middleware: User authenticated")
		c.Next()
	}
}

// CurrentUser 返回 Auth 中间件放入上下文的用户
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// extractToken 从请求头提取令牌。
// Authorization 头优先，格式应为 "Bearer <token>"。
func extractToken(c *gin.Context, allowLegacyHeader bool) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if allowLegacyHeader {
			if legacy := strings.TrimSpace(c.GetHeader(LegacyTokenHeader)); legacy != "" {
				return legacy, nil
			}
		}
		return "", service.ErrMissingToken
	}
	parts := strings.Fields(authHeader)
	// 使用 EqualFold 忽略 "Bearer" 的大小写
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", service.ErrMalformedAuthHeader
	}
	return parts[1], nil
}
