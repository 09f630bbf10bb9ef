package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
)

var (
	ErrBlankName       = errors.New("name must be provided")
	ErrDuplicateName   = errors.New("name already exists in this shoppinglist")
	ErrItemNotFound    = errors.New("item does not exist")
	ErrInvalidPrice    = errors.New("price must be a non-negative integer")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// ItemReader defines read-only operations for shoppinglist items.
type ItemReader interface {
	GetByID(ctx context.Context, userID, itemID int64) (*models.ShoppingListItemDB, error)
	GetByName(ctx context.Context, listID int64, name string) (*models.ShoppingListItemDB, error)
	ListByShoppinglist(ctx context.Context, listID int64, keyword *string, limit *int64) ([]models.ShoppingListItemDB, error)
}

// ItemWriter defines write operations for shoppinglist items.
type ItemWriter interface {
	Save(ctx context.Context, listID int64, name string, price, quantity int64) (*models.ShoppingListItemDB, error)
	Update(ctx context.Context, itemID int64, name string, price, quantity int64) (*models.ShoppingListItemDB, error)
	Delete(ctx context.Context, itemID int64) error
}

// ItemService handles item CRUD scoped under a parent shoppinglist.
type ItemService struct {
	lists  ListReader
	reader ItemReader
	writer ItemWriter
	events KafkaWriter
}

// NewItemService creates a new ItemService instance. events may be nil.
func NewItemService(lists ListReader, reader ItemReader, writer ItemWriter, events KafkaWriter) *ItemService {
	return &ItemService{
		lists:  lists,
		reader: reader,
		writer: writer,
		events: events,
	}
}

// parsePrice validates a price submitted as a string of digits.
// An empty string means "not provided" and defaults to 0.
func parsePrice(price string) (int64, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, nil
	}
	if !isDigits(price) {
		return 0, ErrInvalidPrice
	}
	v, err := strconv.ParseInt(price, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// parseQuantity validates a quantity submitted as a string of digits.
// An empty string means "not provided" and defaults to 1.
func parseQuantity(quantity string) (int64, error) {
	quantity = strings.TrimSpace(quantity)
	if quantity == "" {
		return 1, nil
	}
	if !isDigits(quantity) {
		return 0, ErrInvalidQuantity
	}
	v, err := strconv.ParseInt(quantity, 10, 64)
	if err != nil || v < 1 {
		return 0, ErrInvalidQuantity
	}
	return v, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
// A leading minus sign is rejected along with any other non-digit.
func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Create persists a new item under the given shoppinglist. The parent list
// must exist and be owned by userID.
func (svc *ItemService) Create(ctx context.Context, userID, listID int64, name, price, quantity string) (*models.ShoppingListItemDB, error) {
	list, err := svc.lists.GetByID(ctx, userID, listID)
	if err != nil {
		logger.Log.Errorw("failed to get shoppinglist", "err", err)
		return nil, err
	}
	if list == nil {
		return nil, ErrShoppinglistNotFound
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrBlankName
	}

	priceVal, err := parsePrice(price)
	if err != nil {
		return nil, err
	}
	quantityVal, err := parseQuantity(quantity)
	if err != nil {
		return nil, err
	}

	existing, err := svc.reader.GetByName(ctx, listID, name)
	if err != nil {
		logger.Log.Errorw("failed to check item exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("duplicate item name", "list_id", listID, "name", name)
		return nil, ErrDuplicateName
	}

	item, err := svc.writer.Save(ctx, listID, name, priceVal, quantityVal)
	if err != nil {
		logger.Log.Errorw("failed to save item", "err", err)
		return nil, err
	}

	publishEvent(ctx, svc.events, "item.created", userID, item.ID)

	return item, nil
}

// List returns the items of a shoppinglist owned by userID, optionally
// filtered by a case-insensitive name substring and capped by limit.
func (svc *ItemService) List(ctx context.Context, userID, listID int64, keyword *string, limit *int64) ([]models.ShoppingListItemDB, error) {
	list, err := svc.lists.GetByID(ctx, userID, listID)
	if err != nil {
		logger.Log.Errorw("failed to get shoppinglist", "err", err)
		return nil, err
	}
	if list == nil {
		return nil, ErrShoppinglistNotFound
	}

	if keyword != nil {
		k := strings.ToLower(strings.TrimSpace(*keyword))
		keyword = &k
	}

	items, err := svc.reader.ListByShoppinglist(ctx, listID, keyword, limit)
	if err != nil {
		logger.Log.Errorw("failed to list items", "err", err)
		return nil, err
	}

	if keyword != nil && len(items) == 0 {
		return nil, ErrNoSearchResults
	}

	return items, nil
}

// Get returns a single item, ownership checked through the parent list.
func (svc *ItemService) Get(ctx context.Context, userID, itemID int64) (*models.ShoppingListItemDB, error) {
	item, err := svc.reader.GetByID(ctx, userID, itemID)
	if err != nil {
		logger.Log.Errorw("failed to get item", "err", err)
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	return item, nil
}

// Update revalidates and replaces an item's name, price and quantity.
// Blank price or quantity keep their current values.
func (svc *ItemService) Update(ctx context.Context, userID, itemID int64, name, price, quantity string) (*models.ShoppingListItemDB, error) {
	current, err := svc.reader.GetByID(ctx, userID, itemID)
	if err != nil {
		logger.Log.Errorw("failed to get item", "err", err)
		return nil, err
	}
	if current == nil {
		return nil, ErrItemNotFound
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrBlankName
	}

	priceVal := current.Price
	if strings.TrimSpace(price) != "" {
		if priceVal, err = parsePrice(price); err != nil {
			return nil, err
		}
	}
	quantityVal := current.Quantity
	if strings.TrimSpace(quantity) != "" {
		if quantityVal, err = parseQuantity(quantity); err != nil {
			return nil, err
		}
	}

	existing, err := svc.reader.GetByName(ctx, current.ShoppinglistID, name)
	if err != nil {
		logger.Log.Errorw("failed to check item exists", "err", err)
		return nil, err
	}
	if existing != nil && existing.ID != itemID {
		logger.Log.Errorw("duplicate item name", "list_id", current.ShoppinglistID, "name", name)
		return nil, ErrDuplicateName
	}

	item, err := svc.writer.Update(ctx, itemID, name, priceVal, quantityVal)
	if err != nil {
		logger.Log.Errorw("failed to update item", "err", err)
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	publishEvent(ctx, svc.events, "item.updated", userID, itemID)

	return item, nil
}

// Delete removes an item, ownership checked through the parent list.
func (svc *ItemService) Delete(ctx context.Context, userID, itemID int64) error {
	item, err := svc.reader.GetByID(ctx, userID, itemID)
	if err != nil {
		logger.Log.Errorw("failed to get item", "err", err)
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}

	if err := svc.writer.Delete(ctx, itemID); err != nil {
		logger.Log.Errorw("failed to delete item", "err", err)
		return err
	}

	publishEvent(ctx, svc.events, "item.deleted", userID, itemID)

	return nil
}
