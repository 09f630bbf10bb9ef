package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
)

var (
	ErrBlankTitle           = errors.New("title must be provided")
	ErrDuplicateTitle       = errors.New("title already exists")
	ErrShoppinglistNotFound = errors.New("shoppinglist does not exist")
	ErrNoSearchResults      = errors.New("no results matching keyword")
)

// ListReader defines read-only operations for shoppinglists.
type ListReader interface {
	GetByID(ctx context.Context, userID, listID int64) (*models.ShoppinglistDB, error)
	GetByTitle(ctx context.Context, userID int64, title string) (*models.ShoppinglistDB, error)
	List(ctx context.Context, userID int64, keyword *string, limit *int64) ([]models.ShoppinglistDB, error)
}

// ListWriter defines write operations for shoppinglists.
type ListWriter interface {
	Save(ctx context.Context, userID int64, title string) (*models.ShoppinglistDB, error)
	UpdateTitle(ctx context.Context, userID, listID int64, title string) (*models.ShoppinglistDB, error)
	Delete(ctx context.Context, userID, listID int64) (bool, error)
}

// ShoppinglistService handles shoppinglist CRUD for a single owner.
type ShoppinglistService struct {
	reader ListReader
	writer ListWriter
	events KafkaWriter
}

// NewShoppinglistService creates a new ShoppinglistService instance. events may be nil.
func NewShoppinglistService(reader ListReader, writer ListWriter, events KafkaWriter) *ShoppinglistService {
	return &ShoppinglistService{
		reader: reader,
		writer: writer,
		events: events,
	}
}

// normalizeTitle case-folds and trims a title the way it is stored.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Create persists a new shoppinglist owned by userID.
func (svc *ShoppinglistService) Create(ctx context.Context, userID int64, title string) (*models.ShoppinglistDB, error) {
	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrBlankTitle
	}

	existing, err := svc.reader.GetByTitle(ctx, userID, title)
	if err != nil {
		logger.Log.Errorw("failed to check title exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("duplicate shoppinglist title", "user_id", userID, "title", title)
		return nil, ErrDuplicateTitle
	}

	list, err := svc.writer.Save(ctx, userID, title)
	if err != nil {
		logger.Log.Errorw("failed to save shoppinglist", "err", err)
		return nil, err
	}

	publishEvent(ctx, svc.events, "list.created", userID, list.ID)

	return list, nil
}

// List returns the user's shoppinglists, optionally filtered by a
// case-insensitive title substring and capped by limit. A keyword search with
// zero matches is reported as ErrNoSearchResults.
func (svc *ShoppinglistService) List(ctx context.Context, userID int64, keyword *string, limit *int64) ([]models.ShoppinglistDB, error) {
	if keyword != nil {
		k := normalizeTitle(*keyword)
		keyword = &k
	}

	lists, err := svc.reader.List(ctx, userID, keyword, limit)
	if err != nil {
		logger.Log.Errorw("failed to list shoppinglists", "err", err)
		return nil, err
	}

	if keyword != nil && len(lists) == 0 {
		return nil, ErrNoSearchResults
	}

	return lists, nil
}

// Get returns a single shoppinglist owned by userID.
func (svc *ShoppinglistService) Get(ctx context.Context, userID, listID int64) (*models.ShoppinglistDB, error) {
	list, err := svc.reader.GetByID(ctx, userID, listID)
	if err != nil {
		logger.Log.Errorw("failed to get shoppinglist", "err", err)
		return nil, err
	}
	if list == nil {
		return nil, ErrShoppinglistNotFound
	}

	return list, nil
}

// Update retitles a shoppinglist, revalidating the title and refreshing the
// modification timestamp.
func (svc *ShoppinglistService) Update(ctx context.Context, userID, listID int64, title string) (*models.ShoppinglistDB, error) {
	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrBlankTitle
	}

	current, err := svc.reader.GetByID(ctx, userID, listID)
	if err != nil {
		logger.Log.Errorw("failed to get shoppinglist", "err", err)
		return nil, err
	}
	if current == nil {
		return nil, ErrShoppinglistNotFound
	}

	existing, err := svc.reader.GetByTitle(ctx, userID, title)
	if err != nil {
		logger.Log.Errorw("failed to check title exists", "err", err)
		return nil, err
	}
	if existing != nil && existing.ID != listID {
		logger.Log.Errorw("duplicate shoppinglist title", "user_id", userID, "title", title)
		return nil, ErrDuplicateTitle
	}

	list, err := svc.writer.UpdateTitle(ctx, userID, listID, title)
	if err != nil {
		logger.Log.Errorw("failed to update shoppinglist", "err", err)
		return nil, err
	}
	if list == nil {
		return nil, ErrShoppinglistNotFound
	}

	publishEvent(ctx, svc.events, "list.updated", userID, listID)

	return list, nil
}

// Delete removes a shoppinglist and all of its items.
func (svc *ShoppinglistService) Delete(ctx context.Context, userID, listID int64) error {
	deleted, err := svc.writer.Delete(ctx, userID, listID)
	if err != nil {
		logger.Log.Errorw("failed to delete shoppinglist", "err", err)
		return err
	}
	if !deleted {
		return ErrShoppinglistNotFound
	}

	publishEvent(ctx, svc.events, "list.deleted", userID, listID)

	return nil
}
