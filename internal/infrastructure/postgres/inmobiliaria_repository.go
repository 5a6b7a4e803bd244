package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
)

// Asegura que InmobiliariaRepo implementa repository.InmobiliariaRepository.
var _ repository.InmobiliariaRepository = (*InmobiliariaRepo)(nil)

const inmobiliariaColumns = `id, nombre, COALESCE(nit, ''), COALESCE(email, ''), COALESCE(telefono, ''),
		COALESCE(logo_url, ''), activo, created_at, updated_at`

// InmobiliariaRepo implementación del puerto InmobiliariaRepository sobre PostgreSQL.
type InmobiliariaRepo struct {
	db Querier
}

// NewInmobiliariaRepository construye el adaptador de persistencia para inmobiliarias.
func NewInmobiliariaRepository(db Querier) *InmobiliariaRepo {
	return &InmobiliariaRepo{db: db}
}

// Create persiste una nueva inmobiliaria.
func (r *InmobiliariaRepo) Create(ctx context.Context, in *entity.Inmobiliaria) error {
	query := `
		INSERT INTO inmobiliarias (id, nombre, nit, email, telefono, logo_url, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		in.ID, in.Name, nullable(in.TaxID), nullable(in.Email), nullable(in.Phone),
		nullable(in.LogoURL), in.Active, in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inmobiliaria: %w", err)
	}
	return nil
}

// GetByID obtiene una inmobiliaria por ID; nil si no existe.
func (r *InmobiliariaRepo) GetByID(ctx context.Context, id string) (*entity.Inmobiliaria, error) {
	in, err := scanInmobiliaria(r.db.QueryRow(ctx, `SELECT `+inmobiliariaColumns+` FROM inmobiliarias WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get inmobiliaria: %w", err)
	}
	return in, nil
}

// List lista inmobiliarias por nombre.
func (r *InmobiliariaRepo) List(ctx context.Context, limit, offset int) ([]*entity.Inmobiliaria, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.db.Query(ctx, `SELECT `+inmobiliariaColumns+` FROM inmobiliarias ORDER BY nombre LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inmobiliarias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inmobiliaria
	for rows.Next() {
		in, err := scanInmobiliaria(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inmobiliaria: %w", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

func scanInmobiliaria(row pgx.Row) (*entity.Inmobiliaria, error) {
	var in entity.Inmobiliaria
	err := row.Scan(&in.ID, &in.Name, &in.TaxID, &in.Email, &in.Phone, &in.LogoURL, &in.Active,
		&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &in, nil
}
