package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, inmobiliaria_id::text, email, password_hash, nombre, rol, activo,
		COALESCE(avatar_url, ''), created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO usuarios (id, inmobiliaria_id, email, password_hash, nombre, rol, activo, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		u.ID, nullable(u.InmobiliariaID), u.Email, u.PasswordHash, u.Name, string(u.Role), u.Active,
		nullable(u.AvatarURL), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (cualquier inmobiliaria); nil si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		return nil, fmt.Errorf("get usuario by email: %w", err)
	}
	return u, nil
}

// ListByInmobiliaria lista usuarios de la inmobiliaria con paginación.
func (r *UserRepo) ListByInmobiliaria(ctx context.Context, inmobiliariaID string, limit, offset int) ([]*entity.User, error) {
	limit, offset = clampPage(limit, offset)
	query := `SELECT ` + userColumns + ` FROM usuarios
		WHERE inmobiliaria_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, inmobiliariaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva un usuario de la inmobiliaria; nil si no existe en ella.
func (r *UserRepo) SetActive(ctx context.Context, inmobiliariaID, id string, active bool) (*entity.User, error) {
	query := `UPDATE usuarios SET activo = $3, updated_at = now()
		WHERE id = $1 AND inmobiliaria_id = $2
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, id, inmobiliariaID, active))
	if err != nil {
		return nil, fmt.Errorf("update usuario activo: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	err := row.Scan(&u.ID, &u.InmobiliariaID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.Active,
		&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}
