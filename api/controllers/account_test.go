package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authsvc "github.com/modamarket/backend/internal/auth"
	registersvc "github.com/modamarket/backend/internal/register"
	pkgauth "github.com/modamarket/backend/pkg/auth"
	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

type stubRegisterService struct {
	available bool
	user      *models.User
	err       error
}

func (s stubRegisterService) CheckEmail(ctx context.Context, email string) (*registersvc.EmailCheck, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &registersvc.EmailCheck{Email: email, Available: s.available}, nil
}

func (s stubRegisterService) SendVerification(ctx context.Context, email string) error {
	return s.err
}

func (s stubRegisterService) VerifyCode(ctx context.Context, email, code string) error {
	return s.err
}

func (s stubRegisterService) Register(ctx context.Context, input registersvc.RegisterInput) (*models.User, error) {
	return s.user, s.err
}

type stubAuthService struct {
	result *authsvc.LoginResult
	err    error
}

func (s stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.LoginResult, error) {
	return s.result, s.err
}

func (s stubAuthService) Refresh(ctx context.Context, claims *pkgauth.AccessTokenClaims, refreshToken string) (*authsvc.LoginResult, error) {
	return s.result, s.err
}

func (s stubAuthService) Logout(ctx context.Context, accessID string) error {
	return s.err
}

func TestCheckEmailReportsDuplicate(t *testing.T) {
	handler := CheckEmail(stubRegisterService{available: false}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/check-email", bytes.NewReader([]byte(`{"email":"taken@modamarket.shop"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Success     bool `json:"success"`
		IsDuplicate bool `json:"isDuplicate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || !payload.IsDuplicate {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestCheckEmailFailureUsesLegacyShape(t *testing.T) {
	handler := CheckEmail(stubRegisterService{
		err: pkgerrors.New(pkgerrors.CodeInternal, "query failed"),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/check-email", bytes.NewReader([]byte(`{"email":"shopper@modamarket.shop"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d body=%s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Success {
		t.Fatal("expected success=false")
	}
	if payload.Message == "" {
		t.Fatal("expected a user-facing message")
	}
}

func TestLoginSuccessSetsSavedEmailCookie(t *testing.T) {
	handler := Login(stubAuthService{result: &authsvc.LoginResult{
		UserID:        42,
		Email:         "shopper@modamarket.shop",
		AccessToken:   "access",
		RefreshToken:  "refresh",
		RememberEmail: true,
	}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(`{"email":"shopper@modamarket.shop","password":"Secret#1","rememberEmail":true}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}

	var saved *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == savedEmailCookie {
			saved = c
		}
	}
	if saved == nil {
		t.Fatalf("expected %s cookie to be set", savedEmailCookie)
	}
	if saved.Value != "shopper@modamarket.shop" || saved.MaxAge <= 0 {
		t.Fatalf("unexpected cookie %+v", saved)
	}

	var envelope struct {
		Data struct {
			UserID      int64  `json:"userId"`
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UserID != 42 || envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestLoginWithoutRememberClearsCookie(t *testing.T) {
	handler := Login(stubAuthService{result: &authsvc.LoginResult{
		UserID: 42,
		Email:  "shopper@modamarket.shop",
	}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(`{"email":"shopper@modamarket.shop","password":"Secret#1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	for _, c := range resp.Result().Cookies() {
		if c.Name == savedEmailCookie && c.MaxAge >= 0 {
			t.Fatalf("expected expiring cookie got MaxAge=%d", c.MaxAge)
		}
	}
}

func TestLoginLockedAnswers423WithRetrySeconds(t *testing.T) {
	lockErr := pkgerrors.New(pkgerrors.CodeLocked, "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요.").
		WithDetails(map[string]any{"retryAfterSeconds": 1800})
	handler := Login(stubAuthService{err: lockErr}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(`{"email":"shopper@modamarket.shop","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusLocked {
		t.Fatalf("expected 423 got %d body=%s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeLocked) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
	if envelope.Error.Details["retryAfterSeconds"] != float64(1800) {
		t.Fatalf("expected retryAfterSeconds detail got %+v", envelope.Error.Details)
	}
}

func TestRegisterReturnsCreatedUser(t *testing.T) {
	handler := Register(stubRegisterService{user: &models.User{ID: 9, Email: "new@modamarket.shop"}}, nil)

	body := `{"email":"new@modamarket.shop","password":"Secret#1!","passwordConfirm":"Secret#1!","name":"김모다","phone":"010-1234-5678","agreeTerms":true,"agreePrivacy":true,"agreeMarketing":false}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			UserID int64  `json:"userId"`
			Email  string `json:"email"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UserID != 9 || envelope.Data.Email != "new@modamarket.shop" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}
