package repository

import (
	"context"
	"database/sql"
)

// LayoutRepo persists table column widths.
type LayoutRepo struct{ db *sql.DB }

func NewLayoutRepo(db *sql.DB) *LayoutRepo { return &LayoutRepo{db: db} }

// Widths returns every stored width keyed by column name.
func (r *LayoutRepo) Widths(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT col_name, COALESCE(width, 0) FROM table_layout`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var c ColumnWidth
		if err := rows.Scan(&c.Column, &c.Width); err != nil {
			return nil, err
		}
		out[c.Column] = c.Width
	}
	return out, rows.Err()
}

func (r *LayoutRepo) SetWidth(ctx context.Context, c ColumnWidth) error {
	if c.Column == "" {
		return &ValidationError{Field: "column", Reason: "name required"}
	}
	if c.Width <= 0 {
		return &ValidationError{Field: "width", Reason: "must be positive, got " + itoa(c.Width)}
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO table_layout(col_name, width) VALUES (?, ?)
	ON CONFLICT(col_name) DO UPDATE SET width=excluded.width;
	`, c.Column, c.Width)
	return err
}
