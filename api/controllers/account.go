package controllers

import (
	"net/http"
	"time"

	"github.com/modamarket/backend/api/middleware"
	"github.com/modamarket/backend/api/responses"
	"github.com/modamarket/backend/api/validators"
	authsvc "github.com/modamarket/backend/internal/auth"
	registersvc "github.com/modamarket/backend/internal/register"
	pkgauth "github.com/modamarket/backend/pkg/auth"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
	"github.com/modamarket/backend/pkg/logger"
)

const (
	savedEmailCookie = "savedEmail"
	savedEmailMaxAge = 30 * 24 * time.Hour
)

// EmailRequest carries a single email field.
type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// VerifyCodeRequest carries the mailed verification code.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// CheckEmail answers the join form's duplicate check. The payload is
// the legacy raw shape the form script reads.
func CheckEmail(svc registersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body EmailRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteLegacyFailure(r.Context(), logg, w, err)
			return
		}

		check, err := svc.CheckEmail(r.Context(), body.Email)
		if err != nil {
			responses.WriteLegacyFailure(r.Context(), logg, w, err)
			return
		}

		responses.WriteRaw(w, http.StatusOK, map[string]any{
			"success":     true,
			"isDuplicate": !check.Available,
		})
	}
}

// SendVerification mails a one-time code to the join form's email.
func SendVerification(svc registersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body EmailRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteLegacyFailure(r.Context(), logg, w, err)
			return
		}

		if err := svc.SendVerification(r.Context(), body.Email); err != nil {
			responses.WriteLegacyFailure(r.Context(), logg, w, err)
			return
		}

		responses.WriteRaw(w, http.StatusOK, map[string]any{"success": true})
	}
}

// VerifyEmailCode confirms the mailed code.
func VerifyEmailCode(svc registersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body VerifyCodeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.VerifyCode(r.Context(), body.Email, body.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"verified": true})
	}
}

// Register creates the account once every join-form check passes.
func Register(svc registersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body registersvc.RegisterInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"userId": user.ID,
			"email":  user.Email,
		})
	}
}

// Login authenticates the shopper and manages the remember-me cookie.
func Login(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body authsvc.LoginInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSavedEmailCookie(w, result)
		responses.WriteSuccess(w, map[string]any{
			"userId":       result.UserID,
			"email":        result.Email,
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
		})
	}
}

// Logout revokes the current session.
func Logout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"loggedOut": true})
	}
}

// RefreshRequest carries the rotation token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Refresh rotates the session and mints a new access token. It runs
// behind the auth middleware so expired-but-valid claims are already
// parsed.
func Refresh(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims := claimsFromContext(r)
		result, err := svc.Refresh(r.Context(), claims, body.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
		})
	}
}

func claimsFromContext(r *http.Request) *pkgauth.AccessTokenClaims {
	claims := &pkgauth.AccessTokenClaims{
		UserID: middleware.UserIDFromContext(r.Context()),
		Email:  middleware.UserEmailFromContext(r.Context()),
	}
	claims.ID = middleware.AccessIDFromContext(r.Context())
	return claims
}

func setSavedEmailCookie(w http.ResponseWriter, result *authsvc.LoginResult) {
	cookie := &http.Cookie{
		Name:     savedEmailCookie,
		Path:     "/",
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	}
	if result.RememberEmail {
		cookie.Value = result.Email
		cookie.MaxAge = int(savedEmailMaxAge.Seconds())
	} else {
		cookie.Value = ""
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
