package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/middlewares"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/services"
)

// ShoppinglistManager defines the interface that the shoppinglist service must implement.
type ShoppinglistManager interface {
	Create(ctx context.Context, userID int64, title string) (*models.ShoppinglistDB, error)
	List(ctx context.Context, userID int64, keyword *string, limit *int64) ([]models.ShoppinglistDB, error)
	Get(ctx context.Context, userID, listID int64) (*models.ShoppinglistDB, error)
	Update(ctx context.Context, userID, listID int64, title string) (*models.ShoppinglistDB, error)
	Delete(ctx context.Context, userID, listID int64) error
}

// ShoppinglistRequest represents the JSON body for creating or retitling a shoppinglist
// swagger:model ShoppinglistRequest
type ShoppinglistRequest struct {
	// Title, unique per user
	// required: true
	// default: groceries
	Title string `json:"title"`
}

var errBadQuery = errors.New("bad query parameter")

// parseSearchQuery extracts the optional `q` and `limit` query parameters.
func parseSearchQuery(r *http.Request) (keyword *string, limit *int64, err error) {
	if q := r.URL.Query().Get("q"); q != "" {
		keyword = &q
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		v, convErr := strconv.ParseInt(l, 10, 64)
		if convErr != nil || v < 1 {
			return nil, nil, errBadQuery
		}
		limit = &v
	}
	return keyword, limit, nil
}

// parseIDParam extracts a numeric URL parameter. A non-numeric id behaves
// like a missing resource.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// NewCreateShoppinglistHandler returns an HTTP handler for creating a shoppinglist.
// @Summary Create a shoppinglist
// @Description Creates a shoppinglist owned by the authenticated user. Titles are unique per user.
// @Tags shoppinglist
// @Accept json
// @Produce json
// @Param shoppinglistRequest body handlers.ShoppinglistRequest true "Shoppinglist title"
// @Success 201 {object} models.ShoppinglistDB "Shoppinglist created"
// @Failure 400 {object} handlers.ErrorResponse "Blank title"
// @Failure 409 {object} handlers.ErrorResponse "Duplicate title"
// @Router /shoppinglist/ [post]
// @Security BasicAuth
func NewCreateShoppinglistHandler(svc ShoppinglistManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req ShoppinglistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "title must be provided")
			return
		}

		list, err := svc.Create(r.Context(), userID, req.Title)
		if err != nil {
			writeShoppinglistError(w, err, req.Title)
			return
		}

		writeJSON(w, http.StatusCreated, list)
	}
}

// NewListShoppinglistsHandler returns an HTTP handler for listing shoppinglists.
// @Summary List shoppinglists
// @Description Lists the authenticated user's shoppinglists, with optional case-insensitive title search and result cap
// @Tags shoppinglist
// @Produce json
// @Param q query string false "Title substring to search for"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} models.ShoppinglistDB "Shoppinglists"
// @Failure 404 {object} handlers.ErrorResponse "No search results"
// @Router /shoppinglist/ [get]
// @Security BasicAuth
func NewListShoppinglistsHandler(svc ShoppinglistManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		keyword, limit, err := parseSearchQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		lists, err := svc.List(r.Context(), userID, keyword, limit)
		if err != nil {
			if errors.Is(err, services.ErrNoSearchResults) {
				q := ""
				if keyword != nil {
					q = *keyword
				}
				writeError(w, http.StatusNotFound, fmt.Sprintf("no shoppinglists found matching `%s`", strings.ToLower(strings.TrimSpace(q))))
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, lists)
	}
}

// NewGetShoppinglistHandler returns an HTTP handler for fetching one shoppinglist.
// @Summary Get a shoppinglist
// @Description Returns a single shoppinglist owned by the authenticated user
// @Tags shoppinglist
// @Produce json
// @Param id path int true "Shoppinglist id"
// @Success 200 {object} models.ShoppinglistDB "Shoppinglist"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or foreign shoppinglist"
// @Router /shoppinglist/{id} [get]
// @Security BasicAuth
func NewGetShoppinglistHandler(svc ShoppinglistManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		listID, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusNotFound, "shoppinglist does not exist")
			return
		}

		list, err := svc.Get(r.Context(), userID, listID)
		if err != nil {
			writeShoppinglistError(w, err, "")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// NewUpdateShoppinglistHandler returns an HTTP handler for retitling a shoppinglist.
// @Summary Update a shoppinglist
// @Description Revalidates and replaces the title, refreshing the modification timestamp
// @Tags shoppinglist
// @Accept json
// @Produce json
// @Param id path int true "Shoppinglist id"
// @Param shoppinglistRequest body handlers.ShoppinglistRequest true "New title"
// @Success 200 {object} models.ShoppinglistDB "Shoppinglist updated"
// @Failure 400 {object} handlers.ErrorResponse "Blank title"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or foreign shoppinglist"
// @Failure 409 {object} handlers.ErrorResponse "Duplicate title"
// @Router /shoppinglist/{id} [put]
// @Security BasicAuth
func NewUpdateShoppinglistHandler(svc ShoppinglistManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		listID, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusNotFound, "shoppinglist does not exist")
			return
		}

		var req ShoppinglistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "title must be provided")
			return
		}

		list, err := svc.Update(r.Context(), userID, listID, req.Title)
		if err != nil {
			writeShoppinglistError(w, err, req.Title)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// NewDeleteShoppinglistHandler returns an HTTP handler for deleting a shoppinglist.
// @Summary Delete a shoppinglist
// @Description Deletes a shoppinglist and all of its items
// @Tags shoppinglist
// @Produce json
// @Param id path int true "Shoppinglist id"
// @Success 200 {object} handlers.MessageResponse "Shoppinglist deleted"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or foreign shoppinglist"
// @Router /shoppinglist/{id} [delete]
// @Security BasicAuth
func NewDeleteShoppinglistHandler(svc ShoppinglistManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		listID, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusNotFound, "shoppinglist does not exist")
			return
		}

		if err := svc.Delete(r.Context(), userID, listID); err != nil {
			writeShoppinglistError(w, err, "")
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message: fmt.Sprintf("shoppinglist `%d` has been deleted", listID),
		})
	}
}

// writeShoppinglistError maps shoppinglist service errors to status codes.
func writeShoppinglistError(w http.ResponseWriter, err error, title string) {
	switch {
	case errors.Is(err, services.ErrBlankTitle):
		writeError(w, http.StatusBadRequest, "title must be provided")
	case errors.Is(err, services.ErrDuplicateTitle):
		writeError(w, http.StatusConflict, fmt.Sprintf("`%s` already exists", strings.ToLower(strings.TrimSpace(title))))
	case errors.Is(err, services.ErrShoppinglistNotFound):
		writeError(w, http.StatusNotFound, "shoppinglist does not exist")
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
