package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, email, password_hash, nombre, rol, activo, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `INSERT INTO usuarios (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Name, u.Role, u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return dbError("insert user", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get user", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByUsername obtiene un usuario por username (login).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

// List usuarios por username.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM usuarios ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
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
