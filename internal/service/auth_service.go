package service

import (
	"context"
	"errors"
	"time"

	"devops-assistant-be/internal/dto"
	"devops-assistant-be/internal/entity"
	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/internal/pkg/serverutils"
	"devops-assistant-be/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	SeedDefaults(ctx context.Context) error
}

type authService struct {
	users     *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
	log       logger.ILogger
}

func NewAuthService(users *repository.UserRepository, jwtSecret string, jwtExpirationHours int, log logger.ILogger) IAuthService {
	return &authService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtTTL:    time.Duration(jwtExpirationHours) * time.Hour,
		log:       log,
	}
}

// truncatePassword caps input at bcrypt's 72-byte limit so long passphrases
// hash deterministically instead of erroring.
func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword(truncatePassword(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		PasswordHash: &hashStr,
		Role:         entity.UserRoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("auth", "user registered", map[string]interface{}{"username": user.Username})
	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), truncatePassword(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := serverutils.GenerateToken(s.jwtSecret, user.Username, string(user.Role), s.jwtTTL)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:    token,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// SeedDefaults creates the default admin and user accounts on an empty
// database so a fresh install is immediately usable.
func (s *authService) SeedDefaults(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		username string
		password string
		role     entity.UserRole
	}{
		{"admin", "admin123", entity.UserRoleAdmin},
		{"user", "user123", entity.UserRoleUser},
	}

	for _, d := range defaults {
		hash, err := bcrypt.GenerateFromPassword(truncatePassword(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hashStr := string(hash)
		user := &entity.User{
			Id:           uuid.New(),
			Username:     d.username,
			PasswordHash: &hashStr,
			Role:         d.role,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
	}

	s.log.Warn("auth", "seeded default accounts, change their passwords", map[string]interface{}{
		"usernames": []string{"admin", "user"},
	})
	return nil
}
