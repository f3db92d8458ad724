package service

import (
	"context"
	"errors"

	"github.com/hvngo/shop-backend/config"
	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/repository"
	"github.com/hvngo/shop-backend/pkg/logger"
	"github.com/hvngo/shop-backend/pkg/redis"
	"github.com/hvngo/shop-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("user not found")
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token    string         `json:"token"`
	Role     model.UserRole `json:"role"`
	Username string         `json:"username"`
	UserID   uint           `json:"user_id"`
}

type AuthService interface {
	Register(username, email, password string) (*model.User, error)
	Login(username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) Register(username, email, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *authService) Login(username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"username": username,
		})
		return nil, ErrInvalidCredentials
	}

	pair, err := util.GenerateTokenPair(
		user.ID,
		user.Username,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return &LoginResult{
		Token:    pair.AccessToken,
		Role:     user.Role,
		Username: user.Username,
		UserID:   user.ID,
	}, nil
}

// Logout revokes the presented access token for the remainder of its
// lifetime. A no-op when Redis is disabled, the token then simply expires.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := redis.RevokeToken(ctx, token, s.jwtCfg.AccessTokenExpiry); err != nil {
		logger.Error("Failed to revoke token", err, nil)
		return err
	}

	logger.Info("User logged out successfully", nil)
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
