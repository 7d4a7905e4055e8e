package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"contract-registry-api/common"
	"contract-registry-api/config"
	"contract-registry-api/model"
	"contract-registry-api/service"
)

// cookieMaxAge equals the token validity window, so cookie and token expire
// together.
const cookieMaxAge = int(service.TokenTTL / time.Second)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.IsProduction(),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   config.IsProduction(),
	})
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and issues a session token in both the response body and the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Credentials"
// @Success      200      {object}  model.LoginResponse
// @Failure      401      {object}  common.AppError
// @Failure      403      {object}  common.AppError
// @Router       /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		var statusErr *service.AccountStatusError
		if errors.As(err, &statusErr) {
			return common.NewAppError(http.StatusForbidden, statusErr.Error(), nil)
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not complete login", err)
	}

	setSessionCookie(w, token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
	return nil
}

// Signup godoc
// @Summary      Register a new account
// @Description  Creates an account in pending status. An administrator must approve it before login is possible.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.SignupRequest  true  "New account"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  common.AppError
// @Router       /api/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignupRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.Signup(&req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Registration received. Your account is awaiting administrator approval.",
		"id":      user.ID,
	})
	return nil
}

// Logout godoc
// @Summary      End the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	clearSessionCookie(w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
	return nil
}

// ForgotPassword godoc
// @Summary      Start a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.ForgotPasswordRequest  true  "Account email"
// @Success      200      {object}  map[string]interface{}
// @Failure      404      {object}  common.AppError
// @Router       /api/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ForgotPasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.RequestPasswordReset(req.Email); err != nil {
		if errors.Is(err, service.ErrEmailNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not start password reset", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "A password reset link has been sent",
	})
	return nil
}

// VerifyResetToken godoc
// @Summary      Check a password reset token
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Reset token"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  common.AppError
// @Router       /api/verify-reset-token [get]
func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	token := r.URL.Query().Get("token")
	if token == "" {
		return common.NewAppError(http.StatusBadRequest, "Reset token is required", nil)
	}

	if err := h.userService.VerifyResetToken(token); err != nil {
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	return nil
}

// ResetPassword godoc
// @Summary      Complete a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.ResetPasswordRequest  true  "Token and new password"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  common.AppError
// @Router       /api/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ResetPasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not reset password", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Password reset successful",
	})
	return nil
}
