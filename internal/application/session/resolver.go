package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// Resolver convierte la sesión cruda del gateway en una Session de la aplicación.
// No reintenta: si se quiere reintento se decora el gateway con WithRetry.
type Resolver struct {
	gw  Gateway
	log zerolog.Logger
}

// NewResolver construye el resolvedor sobre el gateway.
func NewResolver(gw Gateway, log zerolog.Logger) *Resolver {
	return &Resolver{gw: gw, log: log}
}

// Resolve ejecuta la máquina de estados completa desde el inicio.
func (r *Resolver) Resolve(ctx context.Context) entity.Session {
	raw, err := r.gw.CurrentRawSession(ctx)
	if err != nil {
		return entity.ErrorSession(fmt.Errorf("leer sesión: %w", err))
	}
	if raw == nil {
		return entity.AnonymousSession(nil)
	}

	id := &entity.Identity{ID: raw.Subject, Active: true}

	row, err := r.gw.FetchRow(ctx, TableUsers, Filter{"id": raw.Subject})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return entity.ErrorSession(fmt.Errorf("leer perfil: %w", err))
		}
		// Sin fila no hay contraste posible: los claims quedan solo como dato de pantalla.
		id.AddIssue(entity.IssueProfileMissing)
		reconcile(id, raw, profile{})
		return entity.AuthenticatedSession(id)
	}

	p := parseProfile(row)
	if p.activeSet && !p.active {
		if err := r.gw.SignOut(ctx); err != nil {
			r.log.Warn().Err(err).Str("user_id", raw.Subject).Msg("no se pudo revocar la sesión de una cuenta inactiva")
		}
		return entity.AnonymousSession(domain.ErrAccountInactive)
	}
	if !p.activeSet {
		id.AddIssue(entity.IssueProfileMalformed)
	}

	id.DisplayName = p.name
	id.Email = p.email
	id.AvatarURL = p.avatarURL
	reconcile(id, raw, p)

	if id.InmobiliariaID != "" {
		id.TenantName = r.tenantName(ctx, id.InmobiliariaID)
	}
	return entity.AuthenticatedSession(id)
}

func (r *Resolver) tenantName(ctx context.Context, inmobiliariaID string) string {
	row, err := r.gw.FetchRow(ctx, TableInmobiliarias, Filter{"id": inmobiliariaID})
	if err != nil {
		r.log.Debug().Err(err).Str("inmobiliaria_id", inmobiliariaID).Msg("nombre de inmobiliaria no disponible")
		return ""
	}
	name, _ := row["nombre"].(string)
	return name
}

// profile campos de la fila usuarios ya tipados.
type profile struct {
	name, email, avatarURL string
	role                   string
	inmobiliariaID         string
	active                 bool
	activeSet              bool
}

func parseProfile(row Row) profile {
	var p profile
	p.name, _ = row["nombre"].(string)
	p.email, _ = row["email"].(string)
	p.avatarURL, _ = row["avatar_url"].(string)
	p.role, _ = row["rol"].(string)
	p.inmobiliariaID, _ = row["inmobiliaria_id"].(string)
	p.active, p.activeSet = row["activo"].(bool)
	return p
}

// reconcile fija rol y tenant a partir del claim y de la fila. Si ambos existen y
// difieren la identidad queda sin autorizar; nunca se prefiere uno en silencio.
func reconcile(id *entity.Identity, raw *RawSession, p profile) {
	id.Role = reconcileRole(id, raw.Role, p.role)

	claim, row := raw.InmobiliariaID, p.inmobiliariaID
	switch {
	case claim != "" && row != "" && claim != row:
		id.AddIssue(entity.IssueTenantMismatch)
	case claim != "":
		id.InmobiliariaID = claim
	case row != "":
		id.InmobiliariaID = row
	default:
		id.AddIssue(entity.IssueMissingTenant)
	}
}

func reconcileRole(id *entity.Identity, claimRaw, rowRaw string) entity.Role {
	claim, claimOK := validRole(id, claimRaw)
	row, rowOK := validRole(id, rowRaw)
	if !claimOK || !rowOK {
		return ""
	}
	switch {
	case claim != "" && row != "" && claim != row:
		id.AddIssue(entity.IssueRoleMismatch)
		return ""
	case claim != "":
		return claim
	case row != "":
		return row
	}
	id.AddIssue(entity.IssueMissingRole)
	return ""
}

// validRole devuelve ok=false solo si s viene informado y no es un rol conocido.
func validRole(id *entity.Identity, s string) (entity.Role, bool) {
	if s == "" {
		return "", true
	}
	r, err := entity.ParseRole(s)
	if err != nil {
		id.AddIssue(entity.IssueInvalidRole)
		return "", false
	}
	return r, true
}
