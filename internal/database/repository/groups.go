package repository

import (
	"context"
	"database/sql"
	"errors"
)

// GroupRepo handles the explicit group registry.
type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) *GroupRepo { return &GroupRepo{db: db} }

func (r *GroupRepo) List(ctx context.Context) ([]Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM groups WHERE COALESCE(name, '') != '' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Add registers name; an existing row is left as is.
func (r *GroupRepo) Add(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO groups(name) VALUES (?)`, name)
	return err
}

func (r *GroupRepo) ByName(ctx context.Context, name string) (*Group, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM groups WHERE name = ?`, name)
	var g Group
	if err := row.Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepo) ExistsTx(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

// DeleteTx removes the registry row inside tx and reports whether it existed.
func (r *GroupRepo) DeleteTx(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RenameTx renames the registry row inside tx, inserting it when the old
// name was only referenced by profiles.
func (r *GroupRepo) RenameTx(ctx context.Context, tx *sql.Tx, from, to string) error {
	res, err := tx.ExecContext(ctx, `UPDATE groups SET name = ? WHERE name = ?`, to, from)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO groups(name) VALUES (?)`, to)
	return err
}
