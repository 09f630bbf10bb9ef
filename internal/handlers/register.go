package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/services"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, password, securityQuestion, securityAnswer string) (int64, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Password, at least 6 characters
	// required: true
	// default: secret123
	Password string `json:"password"`

	// Security question for password reset
	// required: true
	// default: favourite colour?
	SecurityQuestion string `json:"security_question"`

	// Answer to the security question
	// required: true
	// default: blue
	Answer string `json:"answer"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Assigned user id
	// default: 1
	ID int64 `json:"id"`

	// Success message
	// default: user `john_doe` has been created
	Message string `json:"message"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account with a security question and answer. Password is hashed before storing.
// @Tags user
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.RegisterResponse "User successfully registered"
// @Failure 400 {object} handlers.ErrorResponse "Missing username, password or security question"
// @Failure 409 {object} handlers.ErrorResponse "Weak password or duplicate username"
// @Router /user/register/ [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "provide a valid username and password")
			return
		}

		username := services.NormalizeUsername(req.Username)

		id, err := svc.Register(r.Context(), req.Username, req.Password, req.SecurityQuestion, req.Answer)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingCredentials):
				writeError(w, http.StatusBadRequest, "provide a valid username and password")
			case errors.Is(err, services.ErrMissingSecurityQA):
				writeError(w, http.StatusBadRequest, "provide a security question and answer")
			case errors.Is(err, services.ErrWeakPassword):
				writeError(w, http.StatusConflict, "password must be at-least 6 characters")
			case errors.Is(err, services.ErrUsernameTaken):
				writeError(w, http.StatusConflict, fmt.Sprintf("username `%s` is already registered", username))
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			ID:      id,
			Message: fmt.Sprintf("user `%s` has been created", username),
		})
	}
}
