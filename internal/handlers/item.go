package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/middlewares"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/services"
)

// ItemManager defines the interface that the item service must implement.
type ItemManager interface {
	Create(ctx context.Context, userID, listID int64, name, price, quantity string) (*models.ShoppingListItemDB, error)
	List(ctx context.Context, userID, listID int64, keyword *string, limit *int64) ([]models.ShoppingListItemDB, error)
	Get(ctx context.Context, userID, itemID int64) (*models.ShoppingListItemDB, error)
	Update(ctx context.Context, userID, itemID int64, name, price, quantity string) (*models.ShoppingListItemDB, error)
	Delete(ctx context.Context, userID, itemID int64) error
}

// ItemRequest represents the JSON body for creating or updating an item.
// Price and quantity arrive as strings of digits; either plain numbers or
// quoted strings are accepted on the wire.
// swagger:model ItemRequest
type ItemRequest struct {
	// Name, unique within the shoppinglist
	// required: true
	// default: milk
	Name string `json:"name"`

	// Non-negative price, defaults to 0
	// default: 3
	Price json.Number `json:"price"`

	// Positive quantity, defaults to 1
	// default: 2
	Quantity json.Number `json:"quantity"`
}

// NewCreateItemHandler returns an HTTP handler for adding an item to a shoppinglist.
// @Summary Create an item
// @Description Adds an item to a shoppinglist owned by the authenticated user. Names are unique per list.
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Parent shoppinglist id"
// @Param itemRequest body handlers.ItemRequest true "Item fields"
// @Success 201 {object} models.ShoppingListItemDB "Item created"
// @Failure 400 {object} handlers.ErrorResponse "Blank name or non-digit price/quantity"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or foreign shoppinglist"
// @Failure 409 {object} handlers.ErrorResponse "Duplicate item name"
// @Router /shoppinglist/{id}/items/ [post]
// @Security BasicAuth
func NewCreateItemHandler(svc ItemManager) http.HandlerFunc {
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

		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "price and quantity must be non-negative integers")
			return
		}

		item, err := svc.Create(r.Context(), userID, listID, req.Name, req.Price.String(), req.Quantity.String())
		if err != nil {
			writeItemError(w, err, req.Name)
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}

// NewListItemsHandler returns an HTTP handler for listing the items of a shoppinglist.
// @Summary List items
// @Description Lists the items of a shoppinglist, with optional case-insensitive name search and result cap
// @Tags items
// @Produce json
// @Param id path int true "Parent shoppinglist id"
// @Param q query string false "Name substring to search for"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} models.ShoppingListItemDB "Items"
// @Failure 404 {object} handlers.ErrorResponse "Unknown shoppinglist or no search results"
// @Router /shoppinglist/{id}/items/ [get]
// @Security BasicAuth
func NewListItemsHandler(svc ItemManager) http.HandlerFunc {
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

		keyword, limit, err := parseSearchQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		items, err := svc.List(r.Context(), userID, listID, keyword, limit)
		if err != nil {
			if errors.Is(err, services.ErrNoSearchResults) {
				q := ""
				if keyword != nil {
					q = *keyword
				}
				writeError(w, http.StatusNotFound, fmt.Sprintf("no items found matching `%s`", strings.ToLower(strings.TrimSpace(q))))
				return
			}
			writeItemError(w, err, "")
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

// NewGetItemHandler returns an HTTP handler for fetching one item.
// @Summary Get an item
// @Description Returns a single item; ownership is checked through the parent shoppinglist
// @Tags items
// @Produce json
// @Param item_id path int true "Item id"
// @Success 200 {object} models.ShoppingListItemDB "Item"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or foreign item"
// @Router /items/{item_id} [get]
// @Security BasicAuth
func NewGetItemHandler(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		itemID, ok := parseIDParam(r, "item_id")
		if !ok {
			writeError(w, http.StatusNotFound, "item does not exist")
			return
		}

		item, err := svc.Get(r.Context(), userID, itemID)
		if err != nil {
			writeItemError(w, err, "")
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// NewUpdateItemHandler returns an HTTP handler for updating an item.
// @Summary Update an item
// @Description Revalidates and replaces name, price and quantity
// @Tags items
// @Accept json
// @Produce json
// @Param item_id path int true "Item id"
// @Param itemRequest body handlers.ItemRequest true "Item fields"
// @Success 200 {object} models.ShoppingListItemDB "Item updated"
// @Failure 400 {object} handlers.ErrorResponse "Blank name or non-digit price/quantity"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or foreign item"
// @Failure 409 {object} handlers.ErrorResponse "Duplicate item name"
// @Router /items/{item_id} [put]
// @Security BasicAuth
func NewUpdateItemHandler(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		itemID, ok := parseIDParam(r, "item_id")
		if !ok {
			writeError(w, http.StatusNotFound, "item does not exist")
			return
		}

		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "price and quantity must be non-negative integers")
			return
		}

		item, err := svc.Update(r.Context(), userID, itemID, req.Name, req.Price.String(), req.Quantity.String())
		if err != nil {
			writeItemError(w, err, req.Name)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// NewDeleteItemHandler returns an HTTP handler for deleting an item.
// @Summary Delete an item
// @Description Removes a single item from its shoppinglist
// @Tags items
// @Produce json
// @Param item_id path int true "Item id"
// @Success 200 {object} handlers.MessageResponse "Item deleted"
// @Failure 404 {object} handlers.ErrorResponse "Unknown or foreign item"
// @Router /items/{item_id} [delete]
// @Security BasicAuth
func NewDeleteItemHandler(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		itemID, ok := parseIDParam(r, "item_id")
		if !ok {
			writeError(w, http.StatusNotFound, "item does not exist")
			return
		}

		if err := svc.Delete(r.Context(), userID, itemID); err != nil {
			writeItemError(w, err, "")
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message: fmt.Sprintf("item `%d` has been deleted", itemID),
		})
	}
}

// writeItemError maps item service errors to status codes.
func writeItemError(w http.ResponseWriter, err error, name string) {
	switch {
	case errors.Is(err, services.ErrBlankName):
		writeError(w, http.StatusBadRequest, "name must be provided")
	case errors.Is(err, services.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "price must be a non-negative integer")
	case errors.Is(err, services.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
	case errors.Is(err, services.ErrDuplicateName):
		writeError(w, http.StatusConflict, fmt.Sprintf("`%s` already exists in this shoppinglist", strings.ToLower(strings.TrimSpace(name))))
	case errors.Is(err, services.ErrShoppinglistNotFound):
		writeError(w, http.StatusNotFound, "shoppinglist does not exist")
	case errors.Is(err, services.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item does not exist")
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
