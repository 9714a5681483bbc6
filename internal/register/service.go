// Package register implements the join flow: email availability
// check, mailed verification codes, and final account creation gated
// on the full validation checklist.
package register

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	redislib "github.com/redis/go-redis/v9"

	"github.com/modamarket/backend/pkg/config"
	"github.com/modamarket/backend/pkg/db"
	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/mail"
	"github.com/modamarket/backend/pkg/security"
)

const (
	verificationCodeLength = 6
	verificationCodeTTL    = 5 * time.Minute
	verifiedSentinel       = "verified"
	verifiedTTL            = 30 * time.Minute

	msgEmailTaken      = "이미 사용 중인 이메일입니다."
	msgCodeMismatch    = "인증번호가 일치하지 않습니다."
	msgCodeExpired     = "인증번호가 만료되었습니다. 다시 요청해주세요."
	msgChecklistFailed = "입력 정보를 다시 확인해주세요."
)

type accountStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type codeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	EmailVerifyKey(email string) string
}

// RegisterInput carries the join form fields.
type RegisterInput struct {
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	AgreeTerms      bool   `json:"agreeTerms"`
	AgreePrivacy    bool   `json:"agreePrivacy"`
	AgreeMarketing  bool   `json:"agreeMarketing"`
}

// EmailCheck is the availability answer for one email.
type EmailCheck struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
}

// Service is the join surface consumed by the account controller.
type Service interface {
	CheckEmail(ctx context.Context, email string) (*EmailCheck, error)
	SendVerification(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
}

type service struct {
	accounts accountStore
	codes    codeStore
	sender   mail.Sender
	pwCfg    config.PasswordConfig
	mailFrom string
	validate *validator.Validate
}

// NewService wires the register dependencies.
func NewService(accounts accountStore, codes codeStore, sender mail.Sender, pwCfg config.PasswordConfig, mailCfg config.MailConfig) (Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account store required")
	}
	if codes == nil {
		return nil, fmt.Errorf("code store required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	return &service{
		accounts: accounts,
		codes:    codes,
		sender:   sender,
		pwCfg:    pwCfg,
		mailFrom: mailCfg.From,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// CheckEmail answers the availability probe behind the join form's
// duplicate check button.
func (s *service) CheckEmail(ctx context.Context, email string) (*EmailCheck, error) {
	email = normalizeEmail(email)
	if !isEmailFormat(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email format")
	}
	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	return &EmailCheck{Email: email, Available: !exists}, nil
}

// SendVerification mails a one-time code to the address. Taken emails
// are rejected before any mail goes out.
func (s *service) SendVerification(ctx context.Context, email string) error {
	check, err := s.CheckEmail(ctx, email)
	if err != nil {
		return err
	}
	if !check.Available {
		return pkgerrors.New(pkgerrors.CodeConflict, msgEmailTaken)
	}

	code, err := security.GenerateVerificationCode(verificationCodeLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	if err := s.codes.Set(ctx, s.codes.EmailVerifyKey(check.Email), code, verificationCodeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store verification code")
	}

	msg := mail.Message{
		To:      check.Email,
		Subject: "[모다마켓] 이메일 인증번호 안내",
		Body:    fmt.Sprintf("인증번호는 %s 입니다. %d분 안에 입력해주세요.", code, int(verificationCodeTTL.Minutes())),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification mail")
	}
	return nil
}

// VerifyCode checks the submitted code and, on a match, marks the
// email verified for the rest of the join flow.
func (s *service) VerifyCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	}

	key := s.codes.EmailVerifyKey(email)
	stored, err := s.codes.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgCodeExpired)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load verification code")
	}
	if stored == verifiedSentinel || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, msgCodeMismatch)
	}

	if err := s.codes.Set(ctx, key, verifiedSentinel, verifiedTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark email verified")
	}
	return nil
}

// Register creates the account once the full checklist passes. The
// failed checklist is attached to the error so the form can highlight
// each failing field.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)

	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing required fields")
	}

	exists, err := s.accounts.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	verified, err := s.emailVerified(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	state := evaluate(input, !exists, verified)
	if !state.OK() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgChecklistFailed).WithDetails(state)
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:         input.Email,
		PasswordHash:  hash,
		Name:          strings.TrimSpace(input.Name),
		Phone:         strings.TrimSpace(input.Phone),
		EmailVerified: true,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, msgEmailTaken)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	// Best effort: the sentinel expires on its own if this fails.
	_ = s.codes.Del(ctx, s.codes.EmailVerifyKey(input.Email))

	return user, nil
}

func (s *service) emailVerified(ctx context.Context, email string) (bool, error) {
	stored, err := s.codes.Get(ctx, s.codes.EmailVerifyKey(email))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email verification")
	}
	return stored == verifiedSentinel, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
