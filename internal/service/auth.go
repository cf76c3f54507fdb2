package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"thoughts-board/internal/domain"
	"thoughts-board/internal/repository"
)

// MinPasswordLength 是注册时密码的最小长度
const MinPasswordLength = 6

const maxPasswordBytes = 72

// AuthService 负责注册、登录以及访问令牌校验。
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *TokenIssuer
	bcryptCost int
	validate   *validator.Validate
}

// NewAuthService 创建 AuthService 实例。
// bcryptCost 为 0 时使用 bcrypt.DefaultCost。
func NewAuthService(userRepo repository.UserRepository, tokens *TokenIssuer, bcryptCost int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer cannot be nil")
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, bcryptCost)
	}
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
	}, nil
}

// Register 处理用户注册。
// 所有校验（包括查重）完成后才进行哈希和持久化。
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	// 1. 输入校验
	if err := s.validateRegistration(username, email, password); err != nil {
		logCtx.WithError(err).Debug("Registration rejected: invalid input")
		return nil, err
	}

	// 2. 查重（用户名或邮箱，一次查询）
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		logCtx.WithError(err).Error("Database error checking username/email uniqueness")
		return nil, ErrInternalServer
	}
	if exists {
		logCtx.Warn("Registration failed: username or email already exists")
		return nil, ErrRegistrationConflict
	}

	// 3. 生成令牌并哈希密码
	token, err := s.tokens.Issue()
	if err != nil {
		logCtx.WithError(err).Error("Failed to issue access token during registration")
		return nil, ErrInternalServer
	}
	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username:    username,
		Email:       email,
		Password:    hashedPassword,
		AccessToken: token,
	}

	// 4. 保存用户；并发注册时唯一索引兜底
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: duplicate entry on save")
			return nil, ErrRegistrationConflict
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // 清除密码哈希再返回
	return user, nil
}

func (s *AuthService) validateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return newValidationError("All fields are required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return newValidationError("Invalid email format")
	}
	if len(password) < MinPasswordLength {
		return newValidationError(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	// bcrypt 拒绝超过 72 字节的输入
	if len(password) > maxPasswordBytes {
		return newValidationError(fmt.Sprintf("Password must be at most %d bytes long", maxPasswordBytes))
	}
	if utf8.RuneCountInString(username) > domain.MaxUsernameLength {
		return newValidationError(fmt.Sprintf("Username must be at most %d characters long", domain.MaxUsernameLength))
	}
	if utf8.RuneCountInString(email) > domain.MaxEmailLength {
		return newValidationError(fmt.Sprintf("Email must be at most %d characters long", domain.MaxEmailLength))
	}
	return nil
}

// Login 校验用户名和密码，成功时返回用户（带注册时生成的令牌，不重新签发）。
// 用户不存在与密码错误返回同一个错误，避免用户名枚举。
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	logCtx := logrus.WithField("username", username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: User not found")
			return nil, ErrAuthenticationFailed
		}
		logCtx.WithError(err).Error("Login attempt failed: Error finding user")
		return nil, ErrInternalServer
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: Invalid password")
		return nil, ErrAuthenticationFailed
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	user.Password = ""
	return user, nil
}

// Authenticate 将访问令牌解析为用户，只做一次点查询。
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	user, err := s.userRepo.FindByAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		logrus.WithError(err).Error("Database error resolving access token")
		return nil, ErrInternalServer
	}
	user.Password = ""
	return user, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理 (bcrypt 自带随机盐)
func (s *AuthService) hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
