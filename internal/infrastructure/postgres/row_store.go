package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
)

// tableSpec columnas expuestas por el acceso genérico a filas. Las columnas uuid
// se leen como texto.
type tableSpec struct {
	columns   []string
	uuid      map[string]bool
	updatable map[string]bool
}

var rowTables = map[string]tableSpec{
	"usuarios": {
		columns:   []string{"id", "nombre", "email", "rol", "inmobiliaria_id", "activo", "avatar_url"},
		uuid:      map[string]bool{"id": true, "inmobiliaria_id": true},
		updatable: map[string]bool{"nombre": true, "avatar_url": true},
	},
	"inmobiliarias": {
		columns: []string{"id", "nombre", "logo_url", "activo"},
		uuid:    map[string]bool{"id": true},
	},
}

// RowStore lectura y edición de filas por filtro de igualdad, limitada a las
// tablas y columnas de rowTables.
type RowStore struct {
	db Querier
}

// NewRowStore construye el acceso genérico a filas.
func NewRowStore(db Querier) *RowStore {
	return &RowStore{db: db}
}

// FetchRow devuelve la primera fila que cumple filter o domain.ErrNotFound.
func (s *RowStore) FetchRow(ctx context.Context, table string, filter map[string]any) (map[string]any, error) {
	query, args, err := buildSelect(table, filter)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	return row, nil
}

// UpdateRow aplica patch sobre la fila que cumple filter y la devuelve actualizada.
func (s *RowStore) UpdateRow(ctx context.Context, table string, filter, patch map[string]any) (map[string]any, error) {
	query, args, err := buildUpdate(table, filter, patch)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return row, nil
}

func specFor(table string) (tableSpec, error) {
	spec, ok := rowTables[table]
	if !ok {
		return tableSpec{}, fmt.Errorf("%w: tabla %q no expuesta", domain.ErrInvalidInput, table)
	}
	return spec, nil
}

func (t tableSpec) has(col string) bool {
	for _, c := range t.columns {
		if c == col {
			return true
		}
	}
	return false
}

func (t tableSpec) selectList() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		if t.uuid[c] {
			cols[i] = c + "::text AS " + c
		} else {
			cols[i] = c
		}
	}
	return strings.Join(cols, ", ")
}

// where arma las igualdades en orden alfabético de columna para que la consulta
// sea estable. first es el número del primer placeholder.
func (t tableSpec) where(filter map[string]any, first int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, fmt.Errorf("%w: filtro vacío", domain.ErrInvalidInput)
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		if !t.has(k) {
			return "", nil, fmt.Errorf("%w: columna %q", domain.ErrInvalidInput, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = fmt.Sprintf("%s = $%d", k, first+i)
		args[i] = filter[k]
	}
	return strings.Join(conds, " AND "), args, nil
}

func buildSelect(table string, filter map[string]any) (string, []any, error) {
	spec, err := specFor(table)
	if err != nil {
		return "", nil, err
	}
	where, args, err := spec.where(filter, 1)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", spec.selectList(), table, where), args, nil
}

func buildUpdate(table string, filter, patch map[string]any) (string, []any, error) {
	spec, err := specFor(table)
	if err != nil {
		return "", nil, err
	}
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("%w: patch vacío", domain.ErrInvalidInput)
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		if !spec.updatable[k] {
			return "", nil, fmt.Errorf("%w: columna %q no editable", domain.ErrInvalidInput, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+len(filter))
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, patch[k])
	}
	sets = append(sets, "updated_at = now()")

	where, wargs, err := spec.where(filter, len(keys)+1)
	if err != nil {
		return "", nil, err
	}
	args = append(args, wargs...)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		table, strings.Join(sets, ", "), where, spec.selectList())
	return query, args, nil
}
