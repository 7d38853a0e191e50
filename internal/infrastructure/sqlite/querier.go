package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/mattn/go-sqlite3"
)

// Querier abstrae *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Formato fijo en UTC: ordena lexicográficamente igual que cronológicamente.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dbError clasifica errores de sqlite3 igual que el adaptador PostgreSQL.
func dbError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s: referencia inexistente: %w", op, domain.ErrNotFound)
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern %texto% para LIKE ... ESCAPE '\'.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// likePrefix texto% para series de numeración.
func likePrefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}

func setActive(ctx context.Context, q Querier, table, id string, active bool) error {
	_, err := q.ExecContext(ctx, `UPDATE `+table+` SET activo = ?, updated_at = ? WHERE id = ?`,
		active, formatTime(time.Now()), id)
	if err != nil {
		return dbError("set active "+table, err)
	}
	return nil
}
