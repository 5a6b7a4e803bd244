package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const projectColumns = `id, inmobiliaria_id, nombre, ubicacion, COALESCE(descripcion, ''), precio_desde, moneda,
		COALESCE(imagen_url, ''), created_at, updated_at`

// ProjectRepo implementación del puerto ProjectRepository sobre PostgreSQL.
type ProjectRepo struct {
	db Querier
}

// NewProjectRepository construye el adaptador de persistencia para proyectos.
func NewProjectRepository(db Querier) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO proyectos (id, inmobiliaria_id, nombre, ubicacion, descripcion, precio_desde, moneda, imagen_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.InmobiliariaID, p.Name, p.Location, p.Description, p.PriceFrom, p.Currency,
		nullable(p.ImageURL), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert proyecto: %w", err)
	}
	return nil
}

// ListByInmobiliaria lista los proyectos de la inmobiliaria, más recientes primero.
func (r *ProjectRepo) ListByInmobiliaria(ctx context.Context, inmobiliariaID string, limit, offset int) ([]*entity.Project, error) {
	limit, offset = clampPage(limit, offset)
	query := `SELECT ` + projectColumns + ` FROM proyectos WHERE inmobiliaria_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, inmobiliariaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list proyectos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proyecto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene un proyecto de la inmobiliaria; nil si no existe en ella.
func (r *ProjectRepo) GetByID(ctx context.Context, inmobiliariaID, id string) (*entity.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM proyectos WHERE id = $1 AND inmobiliaria_id = $2`, id, inmobiliariaID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proyecto: %w", err)
	}
	return p, nil
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.InmobiliariaID, &p.Name, &p.Location, &p.Description,
		&p.PriceFrom, &p.Currency, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
