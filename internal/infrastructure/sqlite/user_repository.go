package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, email, password_hash, nombre, rol, activo, created_at, updated_at`

// UserRepo usuarios sobre SQLite.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO usuarios (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Name, u.Role, u.Active,
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if err != nil {
		return dbError("insert user", err)
	}
	return nil
}

func scanUser(row scanner) (*entity.User, error) {
	var u entity.User
	var created, updated string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active,
		&created, &updated); err != nil {
		return nil, err
	}
	if err := scanTimes(created, updated, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get user", err)
	}
	return u, nil
}

// GetByID obtiene un usuario.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "username = ?", username)
}

// List usuarios por username.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM usuarios ORDER BY username LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, dbError("list users", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, dbError("scan user", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list users", err)
	}
	return list, nil
}
