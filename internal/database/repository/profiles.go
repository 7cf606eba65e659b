package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// LastUsedLayout is the on-disk format of connections.last_used.
const LastUsedLayout = "2006-01-02 15:04:05"

// ProfileRepo handles connection profiles.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// rows written by older releases may hold NULLs.
const profileColumns = `id, COALESCE(grp, ''), COALESCE(name, ''), COALESCE(host, ''), COALESCE(port, 22),
	COALESCE(user, ''), COALESCE(password, ''), COALESCE(protocol, 'SSH'), COALESCE(last_used, '')`

// ValidateFields checks the stored invariants and returns the normalized fields.
func ValidateFields(f ProfileFields) (ProfileFields, error) {
	f.Group = strings.TrimSpace(f.Group)
	switch f.Group {
	case UngroupedLabel:
		f.Group = ""
	case AllLabel:
		return f, &ValidationError{Field: "group", Reason: AllLabel + " is reserved"}
	}
	if f.Port < 1 || f.Port > 65535 {
		return f, &ValidationError{Field: "port", Reason: "must be within 1-65535, got " + itoa(f.Port)}
	}
	if f.Protocol != ProtocolSSH && f.Protocol != ProtocolSFTP {
		return f, &ValidationError{Field: "protocol", Reason: "must be SSH or SFTP, got " + string(f.Protocol)}
	}
	return f, nil
}

// List returns every profile ordered by group then name. With a non-nil
// group only that group is returned, ordered by name; "" selects ungrouped.
func (r *ProfileRepo) List(ctx context.Context, group *string) ([]Profile, error) {
	query := "SELECT " + profileColumns + " FROM connections"
	var args []interface{}
	if group != nil {
		query += " WHERE COALESCE(grp, '') = ? ORDER BY name, id"
		args = append(args, *group)
	} else {
		query += " ORDER BY COALESCE(grp, ''), name, id"
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepo) Get(ctx context.Context, id int64) (Profile, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM connections WHERE id = ?", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, notFound("profile", id)
	}
	return p, err
}

// Create inserts a new profile and returns its id.
func (r *ProfileRepo) Create(ctx context.Context, f ProfileFields) (int64, error) {
	return r.insert(ctx, f, "")
}

// CreateWithLastUsed is Create for imports that carry a last_used value.
func (r *ProfileRepo) CreateWithLastUsed(ctx context.Context, f ProfileFields, lastUsed string) (int64, error) {
	return r.insert(ctx, f, lastUsed)
}

func (r *ProfileRepo) insert(ctx context.Context, f ProfileFields, lastUsed string) (int64, error) {
	f, err := ValidateFields(f)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO connections(grp, name, host, port, user, password, protocol, last_used)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, f.Group, f.Name, f.Host, f.Port, f.User, f.Secret, string(f.Protocol), lastUsed)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update replaces the mutable fields. last_used is left alone.
func (r *ProfileRepo) Update(ctx context.Context, id int64, f ProfileFields) error {
	f, err := ValidateFields(f)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
	UPDATE connections SET grp=?, name=?, host=?, port=?, user=?, password=?, protocol=?
	WHERE id = ?
	`, f.Group, f.Name, f.Host, f.Port, f.User, f.Secret, string(f.Protocol), id)
	if err != nil {
		return err
	}
	return affected(res, "profile", id)
}

func (r *ProfileRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, "profile", id)
}

// TouchLastUsed sets last_used and nothing else.
func (r *ProfileRepo) TouchLastUsed(ctx context.Context, id int64, ts time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE connections SET last_used = ? WHERE id = ?`, ts.Format(LastUsedLayout), id)
	if err != nil {
		return err
	}
	return affected(res, "profile", id)
}

// Groups returns the distinct non-empty group labels referenced by profiles.
func (r *ProfileRepo) Groups(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT grp FROM connections WHERE COALESCE(grp, '') != '' ORDER BY grp`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *ProfileRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections`).Scan(&n)
	return n, err
}

// Exists reports whether a profile with the same group, name and target exists.
func (r *ProfileRepo) Exists(ctx context.Context, f ProfileFields) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM connections
	WHERE COALESCE(grp, '') = ? AND COALESCE(name, '') = ? AND COALESCE(host, '') = ?
	 AND COALESCE(port, 22) = ? AND COALESCE(user, '') = ?
	`, f.Group, f.Name, f.Host, f.Port, f.User).Scan(&n)
	return n > 0, err
}

// CountInGroup counts profiles labelled group inside tx.
func (r *ProfileRepo) CountInGroup(ctx context.Context, tx *sql.Tx, group string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections WHERE grp = ?`, group).Scan(&n)
	return n, err
}

// DeleteByGroup removes every profile labelled group inside tx.
func (r *ProfileRepo) DeleteByGroup(ctx context.Context, tx *sql.Tx, group string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM connections WHERE grp = ?`, group)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Relabel moves every profile from one group label to another inside tx.
func (r *ProfileRepo) Relabel(ctx context.Context, tx *sql.Tx, from, to string) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE connections SET grp = ? WHERE grp = ?`, to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanner covers both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row scanner) (Profile, error) {
	var p Profile
	var proto string
	if err := row.Scan(&p.ID, &p.Group, &p.Name, &p.Host, &p.Port, &p.User, &p.Secret, &proto, &p.LastUsed); err != nil {
		return Profile{}, err
	}
	p.Protocol = Protocol(strings.ToUpper(proto))
	return p, nil
}

func affected(res sql.Result, kind string, key any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, key)
	}
	return nil
}
