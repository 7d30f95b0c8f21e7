package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/ws"
	"go-stock-pos/pkg/jwt"
)

// Authentication failures. Handlers answer all of them with 401.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      *jwt.Manager
	wsHub       *ws.Hub
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, hub *ws.Hub, idleTimeout time.Duration, log *zap.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		wsHub:       hub,
		idleTimeout: idleTimeout,
		logger:      log,
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		s.logger.Warn("failed login", zap.String("email", user.Email))
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: a new token version invalidates older tokens
	tokenVersion := uuid.New().String()
	if err := s.userRepo.UpdateSession(ctx, user.ID, tokenVersion); err != nil {
		return nil, err
	}

	// 5. Issue token
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, user.RoleCode(), user.GetPrivilegeCodes(), tokenVersion)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", user.RoleCode()))
	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return validationError("new password must be at least 6 characters")
	}

	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	// 2. Verify old password
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	// 3. Store the new hash
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}

	// 4. Tokens issued with the old password stop working
	return s.userRepo.UpdateSession(ctx, user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}

	// 3. Check if user is still active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 4. Strict single session
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	// 5. Inactivity; a user never seen must log in again
	if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > s.idleTimeout {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	// 1. Update timestamp
	if err := s.userRepo.UpdateLastSeen(ctx, userID); err != nil {
		return err
	}

	// 2. Tell other clients this user is online
	s.wsHub.Publish(ws.Event{
		Type:   "user_status_update",
		Action: "online",
		Data: map[string]interface{}{
			"user_id":      userID.String(),
			"status":       "online",
			"last_seen_at": s.now().UTC(),
		},
		User: ws.EventUser{ID: userID.String()},
	})

	return nil
}
