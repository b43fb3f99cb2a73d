package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/identity"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/auth"
	"github.com/lodge/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff authentication
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo represents a user in API responses
type UserInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
	User        UserInfo  `json:"user"`
}

// Login authenticates a user and returns an access token. Unknown usernames
// and wrong passwords produce the same error so the endpoint does not leak
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		logger.L(ctx).Warn("login attempt for unknown user", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.IsActive {
		logger.L(ctx).Warn("login attempt for deactivated account", zap.String("username", req.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.L(ctx).Warn("invalid password attempt", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	})
	if err != nil {
		logger.L(ctx).Error("failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	logger.L(ctx).Info("user logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User: UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role.String(),
		},
	}, nil
}

// GetUser returns user info by ID
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	}, nil
}

// CreateUserRequest represents a request to create a staff account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin staff"`
}

// CreateUser creates a staff account with a bcrypt-hashed password
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to hash password")
	}

	user, err := identity.NewUser(req.Username, string(hash), identity.UserRole(req.Role))
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user created",
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	return &UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	}, nil
}
