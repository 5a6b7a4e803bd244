package guard_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/guard"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

const requested = "/prospectos?etapa=visita"

func complete(role entity.Role) entity.Session {
	return entity.AuthenticatedSession(&entity.Identity{
		ID: "u1", Role: role, InmobiliariaID: "i1", Active: true,
	})
}

func incomplete() entity.Session {
	id := &entity.Identity{ID: "u1", Role: entity.RoleAdmin, Active: true}
	id.AddIssue(entity.IssueMissingTenant)
	return entity.AuthenticatedSession(id)
}

func TestDecide_Totalidad(t *testing.T) {
	sessions := map[string]entity.Session{
		"loading":    entity.LoadingSession(),
		"anonymous":  entity.AnonymousSession(nil),
		"error":      entity.ErrorSession(errors.New("red")),
		"complete":   complete(entity.RoleAdmin),
		"incomplete": incomplete(),
	}
	requirements := map[string][]entity.Role{
		"sin_roles":     nil,
		"rol_coincide":  {entity.RoleAdmin, entity.RoleDeveloper},
		"rol_no_aplica": {entity.RoleDeveloper},
	}
	want := map[string]guard.Kind{
		"loading":    guard.Loading,
		"anonymous":  guard.RedirectLogin,
		"error":      guard.RedirectLogin,
		"incomplete": guard.RedirectUnauthorized,
	}

	for sName, s := range sessions {
		for rName, roles := range requirements {
			t.Run(fmt.Sprintf("%s/%s", sName, rName), func(t *testing.T) {
				got := guard.Decide(s, requested, roles...)

				expected, ok := want[sName]
				if !ok {
					expected = guard.Render
					if rName == "rol_no_aplica" {
						expected = guard.RedirectUnauthorized
					}
				}
				assert.Equal(t, expected, got.Kind)

				if got.Kind == guard.RedirectLogin {
					assert.Equal(t, requested, got.ReturnTo)
				} else {
					assert.Empty(t, got.ReturnTo)
				}
			})
		}
	}
}

func TestDecide_NoInicializadaEsLoading(t *testing.T) {
	got := guard.Decide(entity.UninitializedSession(), "/", entity.RoleSeller)
	assert.Equal(t, guard.Loading, got.Kind)
	assert.Empty(t, got.Location(), "loading no redirige")
}

func TestDecide_CuentaInactivaVaALogin(t *testing.T) {
	id := &entity.Identity{ID: "u1", Role: entity.RoleAdmin, InmobiliariaID: "i1", Active: false}
	got := guard.Decide(entity.AuthenticatedSession(id), "/pipeline")
	assert.Equal(t, guard.RedirectLogin, got.Kind)
	assert.Equal(t, "/pipeline", got.ReturnTo)
}

func TestDecide_AnonimaPorCuentaInactiva(t *testing.T) {
	got := guard.Decide(entity.AnonymousSession(domain.ErrAccountInactive), "/")
	assert.Equal(t, guard.RedirectLogin, got.Kind)
}

func TestDecide_IdentidadesIncompletas(t *testing.T) {
	cases := []struct {
		name string
		id   entity.Identity
	}{
		{"sin rol", entity.Identity{ID: "u1", InmobiliariaID: "i1", Active: true}},
		{"sin tenant", entity.Identity{ID: "u1", Role: entity.RoleSeller, Active: true}},
		{"tenant distinto", entity.Identity{ID: "u1", Role: entity.RoleSeller, Active: true,
			Issues: []entity.IdentityIssue{entity.IssueTenantMismatch}}},
		{"perfil inexistente", entity.Identity{ID: "u1", Role: entity.RoleSeller, InmobiliariaID: "i1", Active: true,
			Issues: []entity.IdentityIssue{entity.IssueProfileMissing}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := tc.id
			got := guard.Decide(entity.AuthenticatedSession(&id), "/")
			assert.Equal(t, guard.RedirectUnauthorized, got.Kind)
		})
	}
}

// Ejemplos literales de la tabla de decisiones.
func TestDecide_Ejemplos(t *testing.T) {
	assert.Equal(t, guard.RedirectUnauthorized,
		guard.Decide(complete(entity.RoleAdmin), "/inmobiliarias", entity.RoleDeveloper).Kind)
	assert.Equal(t, guard.RedirectLogin,
		guard.Decide(entity.AnonymousSession(nil), "/").Kind)
	assert.Equal(t, guard.Loading,
		guard.Decide(entity.LoadingSession(), "/", entity.RoleDeveloper).Kind)
}

func TestDecision_Location(t *testing.T) {
	d := guard.Decision{Kind: guard.RedirectLogin, ReturnTo: requested}
	assert.Equal(t, "/login?next=%2Fprospectos%3Fetapa%3Dvisita", d.Location())
	assert.Equal(t, "/login", guard.Decision{Kind: guard.RedirectLogin}.Location())
	assert.Equal(t, "/unauthorized", guard.Decision{Kind: guard.RedirectUnauthorized}.Location())
	assert.Empty(t, guard.Decision{Kind: guard.Render}.Location())
}
