package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"thoughts-board/internal/service"
)

// HandleServiceError 将 Service 层错误映射为 HTTP 响应，内部错误细节不返回给客户端
func HandleServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		ErrorResponse(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrInvalidID):
		ErrorResponse(c, http.StatusBadRequest, "Invalid ID")
	case errors.Is(err, service.ErrMissingToken):
		ErrorResponse(c, http.StatusUnauthorized, "Access token required")
	case errors.Is(err, service.ErrMalformedAuthHeader):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "loggedout": true})
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, "You can only modify your own thoughts")
	case errors.Is(err, service.ErrThoughtNotFound):
		ErrorResponse(c, http.StatusNotFound, "Thought not found")
	case errors.Is(err, service.ErrRegistrationConflict):
		ErrorResponse(c, http.StatusConflict, "Username or email already exists")
	default:
		if !errors.Is(err, service.ErrInternalServer) {
			logrus.WithError(err).Error("Unhandled internal server error")
		}
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
