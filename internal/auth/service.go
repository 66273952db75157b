package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/internal/users"
	pkgauth "github.com/mokolo-app/mokolo-backend/pkg/auth"
	"github.com/mokolo-app/mokolo-backend/pkg/auth/session"
	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/db"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/security"
)

const minPasswordLength = 8

// rateLimiter is the counting surface the auth flows need from Redis.
type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// sessionManager is the refresh-token surface of session.Manager.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email          string
	Password       string
	FullName       string
	Phone          *string
	WhatsAppNumber *string
}

// TokenPair is the credential set returned on register, login, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is an authenticated user with fresh credentials.
type Session struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// Service implements registration, login, and token rotation.
type Service interface {
	Register(ctx context.Context, input RegisterInput, clientIP string) (*Session, error)
	Login(ctx context.Context, email, password, clientIP string) (*Session, error)
	// Refresh rotates the refresh token and mints a fresh access token. The
	// presented access token may be expired; its signature must still hold.
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	repo      users.Repository
	sessions  sessionManager
	limiter   rateLimiter
	jwtCfg    config.JWTConfig
	pwCfg     config.PasswordConfig
	limitsCfg config.AuthRateLimitConfig
	logger    *logger.Logger
	nowFn     func() time.Time
}

// NewService wires the repositories and session manager for the auth flows.
func NewService(repo users.Repository, sessions sessionManager, limiter rateLimiter, cfg *config.Config, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager required")
	}
	if limiter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rate limiter required")
	}
	if cfg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "config required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:      repo,
		sessions:  sessions,
		limiter:   limiter,
		jwtCfg:    cfg.JWT,
		pwCfg:     cfg.Password,
		limitsCfg: cfg.AuthRateLimit,
		logger:    logg,
		nowFn:     time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput, clientIP string) (*Session, error) {
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	}

	if err := s.allow(ctx, "register:email:"+email, s.limitsCfg.RegisterEmailLimit, s.limitsCfg.RegisterWindow); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, "register:ip:"+clientIP, s.limitsCfg.RegisterIPLimit, s.limitsCfg.RegisterWindow); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:          email,
		PasswordHash:   hash,
		FullName:       strings.TrimSpace(input.FullName),
		Phone:          input.Phone,
		WhatsAppNumber: input.WhatsAppNumber,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: *tokens}, nil
}

func (s *service) Login(ctx context.Context, email, password, clientIP string) (*Session, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if err := s.allow(ctx, "login:email:"+email, s.limitsCfg.LoginEmailLimit, s.limitsCfg.LoginWindow); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, "login:ip:"+clientIP, s.limitsCfg.LoginIPLimit, s.limitsCfg.LoginWindow); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalidCredentials()
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	now := s.nowFn()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error(ctx, "touch last login failed", err)
	}
	user.LastLoginAt = &now

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: *tokens}, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.nowFn(), pkgauth.AccessTokenPayload{
		UserID:     claims.UserID,
		Email:      claims.Email,
		IsVerified: claims.IsVerified,
		JTI:        newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessID := session.NewAccessID()
	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.nowFn(), pkgauth.AccessTokenPayload{
		UserID:     user.ID,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		JTI:        accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) allow(ctx context.Context, scope string, limit int, window time.Duration) error {
	if limit <= 0 || window <= 0 {
		return nil
	}
	ok, _, err := s.limiter.FixedWindowAllow(ctx, scope, int64(limit), window)
	if err != nil {
		// A rate-limit store outage must not lock every user out.
		s.logger.Error(ctx, "rate limit check failed", err)
		return nil
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	return nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
