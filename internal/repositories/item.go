package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
)

type ItemReadRepository struct {
	db *sqlx.DB
}

func NewItemReadRepository(db *sqlx.DB) *ItemReadRepository {
	return &ItemReadRepository{db: db}
}

// GetByID returns the item with the given id, or nil. Ownership is checked
// through the parent shoppinglist, so items on another user's list are
// indistinguishable from missing ones.
func (r *ItemReadRepository) GetByID(ctx context.Context, userID, itemID int64) (*models.ShoppingListItemDB, error) {
	const query = `
		SELECT i.id, i.shoppinglist_id, i.name, i.price, i.quantity
		FROM shoppinglist_items i
		JOIN shoppinglists s ON s.id = i.shoppinglist_id
		WHERE i.id = $1 AND s.user_id = $2
	`

	var item models.ShoppingListItemDB
	err := r.db.GetContext(ctx, &item, query, itemID, userID)

	logger.Log.Infow("item query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{itemID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// GetByName returns the item with the given name inside a shoppinglist, or nil.
// Names are stored case-folded.
func (r *ItemReadRepository) GetByName(ctx context.Context, listID int64, name string) (*models.ShoppingListItemDB, error) {
	const query = `
		SELECT id, shoppinglist_id, name, price, quantity
		FROM shoppinglist_items
		WHERE shoppinglist_id = $1 AND name = $2
	`

	var item models.ShoppingListItemDB
	err := r.db.GetContext(ctx, &item, query, listID, name)

	logger.Log.Infow("item query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{listID, name},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// ListByShoppinglist returns the items of a shoppinglist, optionally filtered
// by a name substring and capped by limit.
func (r *ItemReadRepository) ListByShoppinglist(ctx context.Context, listID int64, keyword *string, limit *int64) ([]models.ShoppingListItemDB, error) {
	const query = `
		SELECT id, shoppinglist_id, name, price, quantity
		FROM shoppinglist_items
		WHERE shoppinglist_id = $1
		  AND ($2::VARCHAR IS NULL OR name LIKE '%' || $2 || '%')
		ORDER BY id
		LIMIT $3
	`

	items := []models.ShoppingListItemDB{}
	err := r.db.SelectContext(ctx, &items, query, listID, keyword, limit)

	logger.Log.Infow("item query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{listID, keyword, limit},
		"result", len(items),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return items, nil
}

type ItemWriteRepository struct {
	db *sqlx.DB
}

func NewItemWriteRepository(db *sqlx.DB) *ItemWriteRepository {
	return &ItemWriteRepository{db: db}
}

// Save inserts a new item and returns the stored row.
func (r *ItemWriteRepository) Save(ctx context.Context, listID int64, name string, price, quantity int64) (*models.ShoppingListItemDB, error) {
	const query = `
		INSERT INTO shoppinglist_items (shoppinglist_id, name, price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, shoppinglist_id, name, price, quantity
	`

	var item models.ShoppingListItemDB
	err := r.db.GetContext(ctx, &item, query, listID, name, price, quantity)

	logger.Log.Infow("item insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{listID, name, price, quantity},
		"result", item.ID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &item, nil
}

// Update replaces name, price and quantity of an item and returns the stored
// row, or nil when the item does not exist.
func (r *ItemWriteRepository) Update(ctx context.Context, itemID int64, name string, price, quantity int64) (*models.ShoppingListItemDB, error) {
	const query = `
		UPDATE shoppinglist_items
		SET name = $2, price = $3, quantity = $4
		WHERE id = $1
		RETURNING id, shoppinglist_id, name, price, quantity
	`

	var item models.ShoppingListItemDB
	err := r.db.GetContext(ctx, &item, query, itemID, name, price, quantity)

	logger.Log.Infow("item update",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{itemID, name, price, quantity},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// Delete removes an item by id.
func (r *ItemWriteRepository) Delete(ctx context.Context, itemID int64) error {
	const query = `
		DELETE FROM shoppinglist_items
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, itemID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("item delete",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{itemID},
		"result", rowsAffected,
		"error", err,
	)

	return err
}
