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

type ShoppinglistReadRepository struct {
	db *sqlx.DB
}

func NewShoppinglistReadRepository(db *sqlx.DB) *ShoppinglistReadRepository {
	return &ShoppinglistReadRepository{db: db}
}

// GetByID returns the shoppinglist with the given id owned by userID, or nil.
// Ownership is part of the lookup so a foreign list is indistinguishable
// from a missing one.
func (r *ShoppinglistReadRepository) GetByID(ctx context.Context, userID, listID int64) (*models.ShoppinglistDB, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM shoppinglists
		WHERE id = $1 AND user_id = $2
	`

	var list models.ShoppinglistDB
	err := r.db.GetContext(ctx, &list, query, listID, userID)

	logger.Log.Infow("shoppinglist query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{listID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// GetByTitle returns the shoppinglist with the given title owned by userID, or nil.
// Titles are stored case-folded, so this is effectively a case-insensitive lookup.
func (r *ShoppinglistReadRepository) GetByTitle(ctx context.Context, userID int64, title string) (*models.ShoppinglistDB, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM shoppinglists
		WHERE user_id = $1 AND title = $2
	`

	var list models.ShoppinglistDB
	err := r.db.GetContext(ctx, &list, query, userID, title)

	logger.Log.Infow("shoppinglist query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, title},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// List returns the user's shoppinglists, optionally filtered by a title
// substring and capped by limit. Nil keyword or limit means no filter / no cap.
func (r *ShoppinglistReadRepository) List(ctx context.Context, userID int64, keyword *string, limit *int64) ([]models.ShoppinglistDB, error) {
	const query = `
		SELECT id, user_id, title, created_at, updated_at
		FROM shoppinglists
		WHERE user_id = $1
		  AND ($2::VARCHAR IS NULL OR title LIKE '%' || $2 || '%')
		ORDER BY id
		LIMIT $3
	`

	lists := []models.ShoppinglistDB{}
	err := r.db.SelectContext(ctx, &lists, query, userID, keyword, limit)

	logger.Log.Infow("shoppinglist query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, keyword, limit},
		"result", len(lists),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return lists, nil
}

type ShoppinglistWriteRepository struct {
	db *sqlx.DB
}

func NewShoppinglistWriteRepository(db *sqlx.DB) *ShoppinglistWriteRepository {
	return &ShoppinglistWriteRepository{db: db}
}

// Save inserts a new shoppinglist and returns the stored row.
// The creation timestamp is set by the store; updated_at stays NULL until
// the first title change.
func (r *ShoppinglistWriteRepository) Save(ctx context.Context, userID int64, title string) (*models.ShoppinglistDB, error) {
	const query = `
		INSERT INTO shoppinglists (user_id, title, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, user_id, title, created_at, updated_at
	`

	var list models.ShoppinglistDB
	err := r.db.GetContext(ctx, &list, query, userID, title)

	logger.Log.Infow("shoppinglist insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, title},
		"result", list.ID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &list, nil
}

// UpdateTitle changes the title and refreshes updated_at. Returns nil when
// the list does not exist or is not owned by userID.
func (r *ShoppinglistWriteRepository) UpdateTitle(ctx context.Context, userID, listID int64, title string) (*models.ShoppinglistDB, error) {
	const query = `
		UPDATE shoppinglists
		SET title = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, created_at, updated_at
	`

	var list models.ShoppinglistDB
	err := r.db.GetContext(ctx, &list, query, listID, userID, title)

	logger.Log.Infow("shoppinglist update",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{listID, userID, title},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// Delete removes a shoppinglist and all of its items in one transaction.
// The item delete is explicit so the cascade does not depend on the store's
// foreign key configuration. Returns false when nothing was deleted.
func (r *ShoppinglistWriteRepository) Delete(ctx context.Context, userID, listID int64) (bool, error) {
	const deleteItems = `
		DELETE FROM shoppinglist_items
		WHERE shoppinglist_id IN (
			SELECT id FROM shoppinglists WHERE id = $1 AND user_id = $2
		)
	`
	const deleteList = `
		DELETE FROM shoppinglists
		WHERE id = $1 AND user_id = $2
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return false, err
	}

	if _, err := tx.ExecContext(ctx, deleteItems, listID, userID); err != nil {
		tx.Rollback()
		logger.Log.Errorw("failed to delete shoppinglist items", "list_id", listID, "error", err)
		return false, err
	}

	res, err := tx.ExecContext(ctx, deleteList, listID, userID)
	if err != nil {
		tx.Rollback()
		logger.Log.Errorw("failed to delete shoppinglist", "list_id", listID, "error", err)
		return false, err
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorw("failed to commit transaction", "error", err)
		return false, err
	}

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("shoppinglist delete",
		"args", []any{listID, userID},
		"result", rowsAffected,
	)

	return rowsAffected > 0, nil
}
