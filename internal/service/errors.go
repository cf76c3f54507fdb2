package service

import "errors"

var (
	ErrInvalidID            = errors.New("invalid ID")
	ErrMissingToken         = errors.New("access token required")
	ErrMalformedAuthHeader  = errors.New("invalid authorization header format")
	ErrInvalidToken         = errors.New("unauthorized")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrRegistrationConflict = errors.New("username or email already exists")
	ErrThoughtNotFound      = errors.New("thought not found")
	ErrForbidden            = errors.New("you can only modify your own thoughts")
	ErrInternalServer       = errors.New("internal server error")
)

// ValidationError 表示请求数据不合法，Message 可直接返回给客户端。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError 判断 err 链中是否包含 *ValidationError。
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
