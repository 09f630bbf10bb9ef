package handlers

import "net/http"

// NewLogoutHandler returns an HTTP handler for user logout.
//
// Logout is stateless: tokens stay valid until their embedded expiry and no
// server-side session exists, so the endpoint always succeeds.
// @Summary User logout
// @Description Stateless logout; clients should discard their token
// @Tags user
// @Produce json
// @Success 200 {object} handlers.MessageResponse "Logged out"
// @Router /user/logout/ [get]
func NewLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out successfully"})
	}
}
