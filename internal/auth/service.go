// Package auth implements shopper login, logout, and token refresh.
// Failed logins are counted in Redis; the third miss locks the account
// for the configured window so clearing browser state cannot reset the
// counter.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	pkgauth "github.com/modamarket/backend/pkg/auth"
	"github.com/modamarket/backend/pkg/auth/session"
	"github.com/modamarket/backend/pkg/config"
	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
	"github.com/modamarket/backend/pkg/security"
)

const (
	msgBadCredentials = "이메일 또는 비밀번호가 올바르지 않습니다."
	msgAccountLocked  = "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요."
)

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type lockoutStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	LoginAttemptKey(email string) string
	LoginLockKey(email string) string
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	RememberEmail bool   `json:"rememberEmail"`
}

// LoginResult is returned on a successful login or refresh.
type LoginResult struct {
	UserID        int64
	Email         string
	AccessToken   string
	RefreshToken  string
	RememberEmail bool
}

// Service is the login surface consumed by the account controller.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Refresh(ctx context.Context, claims *pkgauth.AccessTokenClaims, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	users    userFinder
	store    lockoutStore
	sessions sessionManager
	jwtCfg   config.JWTConfig
	lockCfg  config.LockoutConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the login dependencies. The logger may be nil in
// tests.
func NewService(
	users userFinder,
	store lockoutStore,
	sessions sessionManager,
	jwtCfg config.JWTConfig,
	lockCfg config.LockoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("lockout store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if lockCfg.MaxAttempts <= 0 || lockCfg.LockDuration <= 0 {
		return nil, fmt.Errorf("lockout config is incomplete")
	}
	return &service{
		users:    users,
		store:    store,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		lockCfg:  lockCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Login authenticates the shopper. The error carries ACCOUNT_LOCKED
// with the remaining lock seconds once the attempt budget is spent.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if err := s.checkLocked(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	ok := false
	if user != nil {
		ok, err = security.VerifyPassword(input.Password, user.PasswordHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
	}
	if !ok {
		return nil, s.recordFailure(ctx, email)
	}

	if err := s.store.Del(ctx, s.store.LoginAttemptKey(email)); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "clear login attempt counter")
	}

	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &LoginResult{
		UserID:        user.ID,
		Email:         user.Email,
		AccessToken:   token,
		RefreshToken:  refresh,
		RememberEmail: input.RememberEmail,
	}, nil
}

// Refresh rotates the refresh token and mints a fresh access token for
// the same shopper.
func (s *service) Refresh(ctx context.Context, claims *pkgauth.AccessTokenClaims, refreshToken string) (*LoginResult, error) {
	if claims == nil || claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session claims")
	}
	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{
		UserID:       claims.UserID,
		Email:        claims.Email,
		AccessToken:  token,
		RefreshToken: newRefresh,
	}, nil
}

// Logout revokes the server-side session for the access ID.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) checkLocked(ctx context.Context, email string) error {
	lockKey := s.store.LoginLockKey(email)
	if _, err := s.store.Get(ctx, lockKey); err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check login lock")
	}

	remaining, err := s.store.TTL(ctx, lockKey)
	if err != nil || remaining <= 0 {
		remaining = s.lockCfg.LockDuration
	}
	return pkgerrors.New(pkgerrors.CodeLocked, msgAccountLocked).
		WithDetails(map[string]any{"retryAfterSeconds": int(remaining.Seconds())})
}

// recordFailure bumps the counter and converts the third miss into a
// lock. The attempt counter shares the lock window so stale misses age
// out on their own.
func (s *service) recordFailure(ctx context.Context, email string) error {
	count, err := s.store.IncrWithTTL(ctx, s.store.LoginAttemptKey(email), s.lockCfg.LockDuration)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count login failure")
	}

	if count >= int64(s.lockCfg.MaxAttempts) {
		if err := s.store.Set(ctx, s.store.LoginLockKey(email), "1", s.lockCfg.LockDuration); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set login lock")
		}
		if err := s.store.Del(ctx, s.store.LoginAttemptKey(email)); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "clear login attempt counter")
		}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "email", email), "account locked after repeated login failures")
		}
		return pkgerrors.New(pkgerrors.CodeLocked, msgAccountLocked).
			WithDetails(map[string]any{"retryAfterSeconds": int(s.lockCfg.LockDuration.Seconds())})
	}

	remaining := int64(s.lockCfg.MaxAttempts) - count
	return pkgerrors.New(pkgerrors.CodeUnauthorized, msgBadCredentials).
		WithDetails(map[string]any{"attemptsRemaining": remaining})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
