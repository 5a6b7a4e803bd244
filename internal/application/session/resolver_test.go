package session_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session/gatewayfake"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

const (
	userID = "11111111-1111-1111-1111-111111111111"
	inmoA  = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	inmoB  = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

func rawSession(role, inmo string) *session.RawSession {
	return &session.RawSession{Subject: userID, AccessToken: "tok", Role: role, InmobiliariaID: inmo}
}

func userRow(role, inmo string, active any) session.Row {
	row := session.Row{
		"id":              userID,
		"nombre":          "Ana Pérez",
		"email":           "ana@inmo.test",
		"rol":             role,
		"inmobiliaria_id": inmo,
		"avatar_url":      "https://cdn.test/ana.png",
	}
	if active != nil {
		row["activo"] = active
	}
	return row
}

func resolve(gw session.Gateway) entity.Session {
	return session.NewResolver(gw, zerolog.Nop()).Resolve(context.Background())
}

func TestResolve_SinSesionCrudaEsAnonima(t *testing.T) {
	gw := gatewayfake.New()
	got := resolve(gw)
	assert.Equal(t, entity.SessionAnonymous, got.Status)
	assert.NoError(t, got.Cause)
	assert.Zero(t, gw.FetchCalls())
}

func TestResolve_ErrorLeyendoSesion(t *testing.T) {
	gw := gatewayfake.New()
	gw.FailRawSession(errors.New("redis caído"))
	got := resolve(gw)
	assert.Equal(t, entity.SessionError, got.Status)
	assert.ErrorContains(t, got.Cause, "redis caído")
}

func TestResolve_ErrorDePerfilSeExponeSinReintentar(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("admin", inmoA))
	gw.FailFetch(errors.New("timeout"))

	got := resolve(gw)
	assert.Equal(t, entity.SessionError, got.Status)
	assert.Equal(t, 1, gw.FetchCalls(), "el resolvedor no reintenta por su cuenta")
}

func TestResolve_IdentidadCompleta(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("admin", inmoA))
	gw.SetRow(session.TableUsers, userRow("admin", inmoA, true))
	gw.SetRow(session.TableInmobiliarias, session.Row{"id": inmoA, "nombre": "Inmobiliaria Andes"})

	got := resolve(gw)
	require.Equal(t, entity.SessionAuthenticated, got.Status)
	id := got.Identity
	assert.True(t, id.Authorized())
	assert.Equal(t, entity.RoleAdmin, id.Role)
	assert.Equal(t, inmoA, id.InmobiliariaID)
	assert.Equal(t, "Inmobiliaria Andes", id.TenantName)
	assert.Equal(t, "Ana Pérez", id.DisplayName)
	assert.Equal(t, "https://cdn.test/ana.png", id.AvatarURL)
}

func TestResolve_ClaimAusenteUsaFila(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("", ""))
	gw.SetRow(session.TableUsers, userRow("seller", inmoB, true))

	got := resolve(gw)
	require.Equal(t, entity.SessionAuthenticated, got.Status)
	assert.True(t, got.Identity.Complete())
	assert.Equal(t, entity.RoleSeller, got.Identity.Role)
	assert.Equal(t, inmoB, got.Identity.InmobiliariaID)
	assert.Empty(t, got.Identity.TenantName, "sin fila de inmobiliaria el nombre queda vacío")
}

func TestResolve_DesacuerdoDeTenantNoAutoriza(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("admin", inmoA))
	gw.SetRow(session.TableUsers, userRow("admin", inmoB, true))

	got := resolve(gw)
	require.Equal(t, entity.SessionAuthenticated, got.Status)
	assert.False(t, got.Identity.Complete())
	assert.True(t, got.Identity.HasIssue(entity.IssueTenantMismatch))
	assert.Empty(t, got.Identity.InmobiliariaID)
}

func TestResolve_DesacuerdoDeRolNoAutoriza(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("developer", inmoA))
	gw.SetRow(session.TableUsers, userRow("seller", inmoA, true))

	got := resolve(gw)
	require.Equal(t, entity.SessionAuthenticated, got.Status)
	assert.True(t, got.Identity.HasIssue(entity.IssueRoleMismatch))
	assert.Empty(t, got.Identity.Role)
}

func TestResolve_IncompletosSeMarcanSinRedirigir(t *testing.T) {
	cases := []struct {
		name      string
		claimRole string
		rowRole   string
		rowInmo   string
		issue     entity.IdentityIssue
	}{
		{"sin rol", "", "", inmoA, entity.IssueMissingRole},
		{"sin tenant", "", "admin", "", entity.IssueMissingTenant},
		{"rol inválido en claim", "superuser", "admin", inmoA, entity.IssueInvalidRole},
		{"rol inválido en fila", "", "gerente", inmoA, entity.IssueInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := gatewayfake.New()
			gw.SetRawSession(rawSession(tc.claimRole, ""))
			gw.SetRow(session.TableUsers, userRow(tc.rowRole, tc.rowInmo, true))

			got := resolve(gw)
			require.Equal(t, entity.SessionAuthenticated, got.Status)
			assert.True(t, got.Identity.Active)
			assert.False(t, got.Identity.Complete())
			assert.True(t, got.Identity.HasIssue(tc.issue), "issues: %v", got.Identity.Issues)
		})
	}
}

func TestResolve_PerfilInexistenteEsDatoTerminal(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("admin", inmoA))

	got := resolve(gw)
	require.Equal(t, entity.SessionAuthenticated, got.Status)
	assert.True(t, got.Identity.HasIssue(entity.IssueProfileMissing))
	assert.False(t, got.Identity.Complete())
}

func TestResolve_ActivoMalformado(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("admin", inmoA))
	gw.SetRow(session.TableUsers, userRow("admin", inmoA, "sí"))

	got := resolve(gw)
	require.Equal(t, entity.SessionAuthenticated, got.Status)
	assert.True(t, got.Identity.HasIssue(entity.IssueProfileMalformed))
	assert.Zero(t, gw.SignOutCalls())
}

// Para toda combinación de rol/tenant válidos, una cuenta inactiva termina en
// Anonymous y con la sesión cruda revocada.
func TestResolve_CuentaInactivaSiempreRevocaYQuedaAnonima(t *testing.T) {
	roles := []string{"", "developer", "admin", "seller"}
	tenants := []string{"", inmoA, inmoB}
	for _, claimRole := range roles {
		for _, rowRole := range roles {
			for _, claimInmo := range tenants {
				for _, rowInmo := range tenants {
					name := fmt.Sprintf("%s/%s/%s/%s", claimRole, rowRole, claimInmo, rowInmo)
					t.Run(name, func(t *testing.T) {
						gw := gatewayfake.New()
						gw.SetRawSession(rawSession(claimRole, claimInmo))
						gw.SetRow(session.TableUsers, userRow(rowRole, rowInmo, false))

						got := resolve(gw)
						assert.Equal(t, entity.SessionAnonymous, got.Status)
						assert.ErrorIs(t, got.Cause, domain.ErrAccountInactive)
						assert.Equal(t, 1, gw.SignOutCalls())
					})
				}
			}
		}
	}
}

func TestResolve_CuentaInactivaConRevocacionFallida(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("admin", inmoA))
	gw.SetRow(session.TableUsers, userRow("admin", inmoA, false))
	gw.FailSignOut(errors.New("sin red"), true)

	got := resolve(gw)
	assert.Equal(t, entity.SessionAnonymous, got.Status)
	assert.ErrorIs(t, got.Cause, domain.ErrAccountInactive)
	assert.Equal(t, 1, gw.SignOutCalls())
}
