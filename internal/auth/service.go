package auth

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/libraryhub/libraryhub/internal/config"
	"github.com/libraryhub/libraryhub/internal/database/tokens"
	"github.com/libraryhub/libraryhub/internal/database/users"
	"github.com/libraryhub/libraryhub/internal/entities"
)

// Validation patterns
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// MaxUsernameLength bounds display names.
const MaxUsernameLength = 25

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed login attempts")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTooLong    = errors.New("username must be at most 25 characters")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
)

// TokenPair is an access token plus the refresh token that can renew it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service handles registration, authentication and token lifecycle.
type Service struct {
	users  *users.Repository
	tokens *tokens.Repository
	config config.Auth
	secret []byte
}

// NewService creates a new authentication service.
func NewService(userRepo *users.Repository, tokenRepo *tokens.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  userRepo,
		tokens: tokenRepo,
		config: cfg,
		secret: []byte(cfg.JWTSecret),
	}
}

// Register creates a new user account with the default role.
func (s *Service) Register(email, username, password string) (*entities.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(username) > MaxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	// Validate email format and length (RFC 5321 limit is 254)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	exists, err := s.users.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// CreateAdmin creates an administrator account. Used by the bootstrap CLI.
func (s *Service) CreateAdmin(email, username, password string) (*entities.User, error) {
	user, err := s.Register(email, username, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Updates(user, map[string]any{"role": entities.UserRoleAdmin}); err != nil {
		return nil, fmt.Errorf("failed to promote admin: %w", err)
	}
	user.Role = entities.UserRoleAdmin
	return user, nil
}

// HashNewPassword hashes a password with the service's configured cost.
// Used when updating an existing account.
func (s *Service) HashNewPassword(password string) (string, error) {
	return HashPassword(password, s.config.BcryptCost)
}

// Authenticate validates credentials and returns the user.
// Implements account lockout after too many failed attempts.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.users.GetActiveByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Check if account is locked
	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		return nil, ErrAccountLocked
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		s.recordFailedLogin(user)
		return nil, ErrInvalidCredentials
	}

	// Successful login - reset failed attempts and update last login
	now := time.Now()
	err = s.users.Updates(user, map[string]any{
		"last_login_at":      now,
		"failed_login_count": 0,
		"locked_until":       nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return user, nil
}

// recordFailedLogin increments the failed login counter and locks the account
// once the threshold is reached.
func (s *Service) recordFailedLogin(user *entities.User) {
	user.FailedLoginCount++

	updates := map[string]any{
		"failed_login_count": user.FailedLoginCount,
	}

	maxAttempts := s.config.MaxLoginAttempts
	if maxAttempts == 0 {
		maxAttempts = 5
	}
	if user.FailedLoginCount >= maxAttempts {
		lockoutDuration := s.config.LockoutDuration
		if lockoutDuration == 0 {
			lockoutDuration = 30 * time.Minute
		}
		updates["locked_until"] = time.Now().Add(lockoutDuration)
	}

	if err := s.users.Updates(user, updates); err != nil {
		log.Printf("Failed to record failed login for user %d: %v", user.ID, err)
	}
}

// IssueTokens signs a fresh access/refresh token pair for the user and
// records the refresh token hash for later rotation.
func (s *Service) IssueTokens(user *entities.User) (*TokenPair, error) {
	access, err := SignToken(s.secret, user, TokenTypeAccess, s.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := SignToken(s.secret, user, TokenTypeRefresh, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := &entities.RefreshToken{
		UserID:    user.ID,
		TokenHash: HashToken(refresh),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenTTL),
	}
	if err := s.tokens.Create(record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Refresh rotates a refresh token: the old token is revoked and a new
// access/refresh pair is issued. A token that was already rotated, revoked
// or expired is rejected.
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := ParseToken(s.secret, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	record, err := s.tokens.GetByHash(HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, tokens.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if record.Revoked() || record.Expired(time.Now()) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	if err := s.tokens.Revoke(record.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.IssueTokens(user)
}

// RevokeUserTokens revokes every live refresh token of a user, cutting off
// rotation even if the account is reactivated later.
func (s *Service) RevokeUserTokens(userID uint) error {
	return s.tokens.RevokeAllForUser(userID)
}

// UserFromAccessToken validates an access token and loads its user.
// Deactivated accounts are rejected even when the token is still valid.
func (s *Service) UserFromAccessToken(tokenStr string) (*entities.User, error) {
	claims, err := ParseToken(s.secret, tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}
