package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/middlewares"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/services"
)

// PasswordChanger defines the interface for authenticated password changes.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID int64, password string) error
}

// PasswordResetter defines the interface for the security question reset flow.
type PasswordResetter interface {
	GetSecurityQuestion(ctx context.Context, username string) (string, error)
	ResetPassword(ctx context.Context, username, password, answer string) error
}

// ChangePasswordRequest represents the JSON body for a password change
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// New password
	// required: true
	// default: secret456
	Password string `json:"password"`
}

// ResetPasswordRequest represents the JSON body for a password reset
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	// New password, at least 6 characters
	// required: true
	// default: secret456
	Password string `json:"password"`

	// Answer to the stored security question, compared case-insensitively
	// required: true
	// default: blue
	Answer string `json:"answer"`
}

// SecurityQuestionResponse carries the stored security question for a user
// swagger:model SecurityQuestionResponse
type SecurityQuestionResponse struct {
	// Security question
	// default: favourite colour?
	SecurityQuestion string `json:"security_question"`
}

// NewChangePasswordHandler returns an HTTP handler for authenticated password changes.
// @Summary Change password
// @Description Rehashes and persists a new password for the authenticated user
// @Tags user
// @Accept json
// @Produce json
// @Param changePasswordRequest body handlers.ChangePasswordRequest true "New password"
// @Success 200 {object} handlers.MessageResponse "Password changed"
// @Failure 400 {object} handlers.ErrorResponse "Blank password"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /user/change_password/ [put]
// @Security BasicAuth
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "password must be provided")
			return
		}

		if err := svc.ChangePassword(r.Context(), userID, req.Password); err != nil {
			switch {
			case errors.Is(err, services.ErrBlankPassword):
				writeError(w, http.StatusBadRequest, "password must be provided")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "password changed successfully"})
	}
}

// NewGetSecurityQuestionHandler returns an HTTP handler serving the stored
// security question for a username.
// @Summary Get security question
// @Description Returns the security question recorded at registration for the named user
// @Tags user
// @Produce json
// @Param user query string true "Username"
// @Success 200 {object} handlers.SecurityQuestionResponse "Security question"
// @Failure 404 {object} handlers.ErrorResponse "Unknown user"
// @Router /user/reset_password/ [get]
func NewGetSecurityQuestionHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("user")

		question, err := svc.GetSecurityQuestion(r.Context(), username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeError(w, http.StatusNotFound, fmt.Sprintf("user `%s` does not exist", username))
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, SecurityQuestionResponse{SecurityQuestion: question})
	}
}

// NewResetPasswordHandler returns an HTTP handler for the password reset flow.
// @Summary Reset password
// @Description Sets a new password after matching the security answer case-insensitively
// @Tags user
// @Accept json
// @Produce json
// @Param user query string true "Username"
// @Param resetPasswordRequest body handlers.ResetPasswordRequest true "New password and security answer"
// @Success 200 {object} handlers.MessageResponse "Password reset"
// @Failure 400 {object} handlers.ErrorResponse "Weak password or wrong answer"
// @Failure 404 {object} handlers.ErrorResponse "Unknown user"
// @Router /user/reset_password/ [post]
func NewResetPasswordHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("user")

		var req ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "provide a valid password and answer")
			return
		}

		if err := svc.ResetPassword(r.Context(), username, req.Password, req.Answer); err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeError(w, http.StatusNotFound, fmt.Sprintf("user `%s` does not exist", username))
			case errors.Is(err, services.ErrWeakPassword):
				writeError(w, http.StatusBadRequest, "password must be at-least 6 characters")
			case errors.Is(err, services.ErrAnswerMismatch):
				writeError(w, http.StatusBadRequest, "security answer does not match")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "password has been reset"})
	}
}
