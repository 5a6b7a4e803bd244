package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session/gatewayfake"
	apphttp "github.com/jhoicas/Inmobiliaria-crm/internal/interfaces/http"
)

const (
	cookieName = "crm_sid"
	testUserID = "11111111-1111-1111-1111-111111111111"
	inmoA      = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
)

func sessionConfig(wait time.Duration) apphttp.SessionConfig {
	return apphttp.SessionConfig{CookieName: cookieName, Wait: wait}
}

// newRegistry comparte un único gateway fake entre todos los clientes.
func newRegistry(t *testing.T, gw *gatewayfake.Gateway) *session.Registry {
	t.Helper()
	reg := session.NewRegistry(session.RegistryConfig{
		Factory: func(string) session.Gateway { return gw },
	})
	t.Cleanup(reg.CloseAll)
	return reg
}

func signIn(gw *gatewayfake.Gateway, role string, active bool) {
	gw.SetRawSession(&session.RawSession{Subject: testUserID, AccessToken: "tok", Role: role, InmobiliariaID: inmoA})
	gw.SetRow(session.TableUsers, session.Row{
		"id": testUserID, "nombre": "Ana Pérez", "email": "ana@inmo.test",
		"rol": role, "inmobiliaria_id": inmoA, "activo": active,
	})
	gw.SetRow(session.TableInmobiliarias, session.Row{"id": inmoA, "nombre": "Inmobiliaria Andes"})
}

// client conserva la cookie de sesión entre peticiones.
type client struct {
	t   *testing.T
	app *fiber.App
	sid string
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: c.sid})
	}
	resp, err := c.app.Test(req, int((5 * time.Second).Milliseconds()))
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			c.sid = ck.Value
		}
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	return app
}
