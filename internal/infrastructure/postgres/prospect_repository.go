package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
)

var _ repository.ProspectRepository = (*ProspectRepo)(nil)

const prospectColumns = `id, inmobiliaria_id, COALESCE(proyecto_id::text, ''), COALESCE(asignado_a::text, ''),
		nombre, COALESCE(email, ''), COALESCE(telefono, ''), presupuesto, etapa, COALESCE(notas, ''),
		created_at, updated_at`

// ProspectRepo implementación del puerto ProspectRepository sobre PostgreSQL.
type ProspectRepo struct {
	db Querier
}

// NewProspectRepository construye el adaptador de persistencia para prospectos.
func NewProspectRepository(db Querier) *ProspectRepo {
	return &ProspectRepo{db: db}
}

// Create persiste un nuevo prospecto.
func (r *ProspectRepo) Create(ctx context.Context, p *entity.Prospect) error {
	query := `
		INSERT INTO prospectos (id, inmobiliaria_id, proyecto_id, asignado_a, nombre, email, telefono,
		                        presupuesto, etapa, notas, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.InmobiliariaID, nullable(p.ProjectID), nullable(p.AssignedTo), p.Name,
		nullable(p.Email), nullable(p.Phone), p.Budget, string(p.Stage), nullable(p.Notes),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prospecto: %w", err)
	}
	return nil
}

// GetByID obtiene un prospecto de la inmobiliaria; nil si no existe en ella.
func (r *ProspectRepo) GetByID(ctx context.Context, inmobiliariaID, id string) (*entity.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospectos WHERE id = $1 AND inmobiliaria_id = $2`
	p, err := scanProspect(r.db.QueryRow(ctx, query, id, inmobiliariaID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prospecto: %w", err)
	}
	return p, nil
}

// List lista prospectos de la inmobiliaria aplicando los filtros informados.
func (r *ProspectRepo) List(ctx context.Context, inmobiliariaID string, f repository.ProspectFilter) ([]*entity.Prospect, error) {
	query, args := buildProspectList(inmobiliariaID, f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list prospectos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prospecto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStage mueve el prospecto de etapa. domain.ErrNotFound si no pertenece a la inmobiliaria.
func (r *ProspectRepo) UpdateStage(ctx context.Context, inmobiliariaID, id string, stage entity.Stage) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE prospectos SET etapa = $3, updated_at = now() WHERE id = $1 AND inmobiliaria_id = $2`,
		id, inmobiliariaID, string(stage))
	if err != nil {
		return fmt.Errorf("update etapa prospecto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func buildProspectList(inmobiliariaID string, f repository.ProspectFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT ` + prospectColumns + ` FROM prospectos WHERE inmobiliaria_id = $1`)
	args := []any{inmobiliariaID}
	if f.Stage != "" {
		args = append(args, string(f.Stage))
		fmt.Fprintf(&b, " AND etapa = $%d", len(args))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		fmt.Fprintf(&b, " AND asignado_a = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, likeContains(f.Search))
		n := len(args)
		fmt.Fprintf(&b, ` AND (unaccent(lower(nombre)) LIKE $%d ESCAPE '\' OR unaccent(lower(COALESCE(email, ''))) LIKE $%d ESCAPE '\')`, n, n)
	}
	limit, offset := clampPage(f.Limit, f.Offset)
	args = append(args, limit, offset)
	fmt.Fprintf(&b, " ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}

// StageTotals cuenta prospectos y suma presupuestos por etapa.
func (r *ProspectRepo) StageTotals(ctx context.Context, inmobiliariaID, assignedTo string) ([]repository.StageTotal, error) {
	query, args := buildStageTotals(inmobiliariaID, assignedTo)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("totales por etapa: %w", err)
	}
	defer rows.Close()
	var out []repository.StageTotal
	for rows.Next() {
		var t repository.StageTotal
		var stage string
		if err := rows.Scan(&stage, &t.Count, &t.Budget); err != nil {
			return nil, fmt.Errorf("scan totales por etapa: %w", err)
		}
		t.Stage = entity.Stage(stage)
		out = append(out, t)
	}
	return out, rows.Err()
}

func buildStageTotals(inmobiliariaID, assignedTo string) (string, []any) {
	query := `SELECT etapa, count(*), COALESCE(sum(presupuesto), 0) FROM prospectos WHERE inmobiliaria_id = $1`
	args := []any{inmobiliariaID}
	if assignedTo != "" {
		args = append(args, assignedTo)
		query += ` AND asignado_a = $2`
	}
	return query + ` GROUP BY etapa`, args
}

// likeContains arma el patrón LIKE "contiene" escapando los comodines del texto.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func scanProspect(row pgx.Row) (*entity.Prospect, error) {
	var p entity.Prospect
	var stage string
	err := row.Scan(&p.ID, &p.InmobiliariaID, &p.ProjectID, &p.AssignedTo, &p.Name, &p.Email, &p.Phone,
		&p.Budget, &stage, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Stage = entity.Stage(stage)
	return &p, nil
}
