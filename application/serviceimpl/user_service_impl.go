package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todo-api/domain/dto"
	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type UserServiceImpl struct {
	userRepo  repositories.UserRepository
	revoked   ports.TokenRevocationPort // optional
	jwtSecret string
	jwtExpiry time.Duration
}

func NewUserService(userRepo repositories.UserRepository, jwtSecret string, jwtExpiry time.Duration) services.UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// NewUserServiceWithRevocation เหมือน NewUserService แต่ logout จะ revoke token ด้วย
func NewUserServiceWithRevocation(userRepo repositories.UserRepository, revoked ports.TokenRevocationPort, jwtSecret string, jwtExpiry time.Duration) services.UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		revoked:   revoked,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.ErrorContext(ctx, "Failed to look up user by email", "error", err)
		return nil, err
	}
	if existingUser != nil {
		logger.WarnContext(ctx, "Email already exists", "email", email)
		return nil, services.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			logger.WarnContext(ctx, "Email already exists", "email", email)
			return nil, services.ErrEmailExists
		}
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "User created successfully", "user_id", user.ID, "email", user.Email)

	return user, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	email := normalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Login failed - email not found", "email", email)
			return "", nil, services.ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "Failed to look up user by email", "error", err)
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return "", nil, services.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)

	return token, user, nil
}

// Logout revoke token จนกว่าจะหมดอายุ ถ้าไม่มี revocation store จะไม่ทำอะไร
// token ที่ว่างหรือ parse ไม่ได้ถือว่า logout สำเร็จ
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	if s.revoked == nil || token == "" {
		return nil
	}

	userCtx, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}

	ttl := time.Until(userCtx.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.revoked.Revoke(ctx, token, ttl); err != nil {
		logger.ErrorContext(ctx, "Failed to revoke token", "user_id", userCtx.ID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Token revoked", "user_id", userCtx.ID, "ttl", ttl.String())
	return nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
