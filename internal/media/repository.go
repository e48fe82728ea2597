package media

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository interface {
	AppendItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
	UpdatePositions(ctx context.Context, orderedIDs []string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// AppendItem places item after the current last position. The position read
// and the insert share one transaction.
func (r *SQLiteRepository) AppendItem(ctx context.Context, item *Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM media_items").Scan(&item.Position); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO media_items (id, kind, name, display_duration_s, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, string(item.Kind), item.Name, item.DisplayDurationSeconds, item.Position, item.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, name, display_duration_s, position, created_at
		FROM media_items WHERE id = ?
	`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var kind, createdAt string
	if err := row.Scan(&item.ID, &kind, &item.Name, &item.DisplayDurationSeconds, &item.Position, &createdAt); err != nil {
		return nil, err
	}
	item.Kind = Kind(kind)
	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &item, nil
}

func (r *SQLiteRepository) ListItems(ctx context.Context) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, name, display_duration_s, position, created_at
		FROM media_items ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteItem removes id and closes the gap it leaves in the ordering. It
// reports false when no such item exists.
func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM media_items WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	rows, err := tx.QueryContext(ctx, "SELECT id FROM media_items ORDER BY position ASC")
	if err != nil {
		return false, err
	}
	var ids []string
	for rows.Next() {
		var rid string
		if err := rows.Scan(&rid); err != nil {
			rows.Close()
			return false, err
		}
		ids = append(ids, rid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, err
	}

	if err := renumber(ctx, tx, ids); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// UpdatePositions rewrites positions 0..n-1 in the given order inside one transaction.
func (r *SQLiteRepository) UpdatePositions(ctx context.Context, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := renumber(ctx, tx, orderedIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// renumber moves every row to a negative slot first so the unique position
// index never sees two rows on the same position mid-update.
func renumber(ctx context.Context, tx *sql.Tx, orderedIDs []string) error {
	if _, err := tx.ExecContext(ctx, "UPDATE media_items SET position = -1 - position"); err != nil {
		return err
	}
	for pos, id := range orderedIDs {
		res, err := tx.ExecContext(ctx, "UPDATE media_items SET position = ? WHERE id = ?", pos, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("media item %s not found", id)
		}
	}
	return nil
}
