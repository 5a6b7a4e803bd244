package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Inmobiliaria-crm/pkg/jwt"
)

var _ session.Gateway = (*Client)(nil)

// Client gateway de un cliente (una cookie de sesión).
type Client struct {
	hub *Hub
	id  string

	mu     sync.Mutex
	loaded bool // el token ya se leyó de Redis (o se fijó/borró localmente)
	token  string
	claims *pkgjwt.Claims

	listeners map[int]func(session.AuthEvent, *session.RawSession)
	nextID    int
}

func newClient(h *Hub, id string) *Client {
	return &Client{
		hub:       h,
		id:        id,
		listeners: make(map[int]func(session.AuthEvent, *session.RawSession)),
	}
}

// CurrentRawSession devuelve la sesión del token vigente. Un token inválido,
// expirado o revocado equivale a no tener sesión.
func (c *Client) CurrentRawSession(ctx context.Context) (*session.RawSession, error) {
	claims, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, nil
	}
	if exp := claims.Expiry(); !exp.IsZero() && !time.Now().Before(exp) {
		c.forget()
		return nil, nil
	}

	revoked, err := c.hub.cfg.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		c.forget()
		return nil, nil
	}
	return rawFromClaims(c.currentToken(), claims), nil
}

func (c *Client) OnAuthStateChange(fn func(session.AuthEvent, *session.RawSession)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SignOut olvida el token en memoria antes de tocar Redis: aunque la revocación
// falle, este cliente ya no tiene sesión y el Hub recuerda el cierre hasta poder
// revocar. No emite eventos.
func (c *Client) SignOut(ctx context.Context) error {
	claims, loadErr := c.load(ctx)
	c.forget()
	if loadErr != nil {
		c.hub.markSignedOut(c.id, pendingRevoke{})
		return loadErr
	}
	if err := c.hub.revoke(ctx, c.id, claims); err != nil {
		return err
	}
	if claims != nil {
		c.hub.cfg.Log.Debug().Str("user_id", claims.UserID).Msg("sesión revocada en gateway")
	}
	return nil
}

// FetchRow lee una fila con las reglas por fila de la sesión actual.
func (c *Client) FetchRow(ctx context.Context, table string, filter session.Filter) (session.Row, error) {
	claims, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := canRead(claims, table, filter); err != nil {
		return nil, err
	}
	row, err := c.hub.cfg.Rows.FetchRow(ctx, table, filter)
	if err != nil {
		return nil, err
	}
	return session.Row(row), nil
}

// UpdateRow solo permite editar la propia fila de usuarios.
func (c *Client) UpdateRow(ctx context.Context, table string, filter session.Filter, patch session.Row) (session.Row, error) {
	claims, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, domain.ErrUnauthorized
	}
	if table != session.TableUsers || fmt.Sprint(filter["id"]) != claims.UserID || len(filter) != 1 {
		return nil, domain.ErrForbidden
	}
	row, err := c.hub.cfg.Rows.UpdateRow(ctx, table, filter, patch)
	if err != nil {
		return nil, err
	}
	return session.Row(row), nil
}

// canRead reglas por fila: sin sesión nada; cada usuario lee su propia fila e
// inmobiliaria; developer lee cualquiera.
func canRead(claims *pkgjwt.Claims, table string, filter session.Filter) error {
	if claims == nil {
		return domain.ErrUnauthorized
	}
	if claims.Role == string(entity.RoleDeveloper) {
		return nil
	}
	id := fmt.Sprint(filter["id"])
	switch table {
	case session.TableUsers:
		if id == claims.UserID {
			return nil
		}
	case session.TableInmobiliarias:
		// el claim puede venir vacío en tokens viejos: la fila del perfil decide
		if claims.InmobiliariaID == "" || id == claims.InmobiliariaID {
			return nil
		}
	}
	return domain.ErrForbidden
}

// load devuelve los claims del token vigente, leyéndolo de Redis la primera vez.
// nil sin error si no hay token o no es válido.
func (c *Client) load(ctx context.Context) (*pkgjwt.Claims, error) {
	c.mu.Lock()
	if c.loaded {
		claims := c.claims
		c.mu.Unlock()
		return claims, nil
	}
	c.mu.Unlock()

	tok, err := c.hub.cfg.Tokens.Get(ctx, c.id)
	if err != nil {
		return nil, err
	}
	var claims *pkgjwt.Claims
	if tok != "" {
		claims, err = pkgjwt.Parse(c.hub.cfg.Secret, tok)
		if err != nil {
			c.hub.cfg.Log.Debug().Err(err).Str("client_id", c.id).Msg("token guardado inválido; se descarta")
			tok, claims = "", nil
		}
	}
	if c.hub.signedOut(c.id, claims) {
		tok, claims = "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		// un Bind o SignOut concurrente ganó
		return c.claims, nil
	}
	c.loaded = true
	c.token = tok
	c.claims = claims
	return claims, nil
}

func (c *Client) setToken(tok string, claims *pkgjwt.Claims) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.token = tok
	c.claims = claims
}

func (c *Client) forget() {
	c.setToken("", nil)
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) subject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claims == nil {
		return ""
	}
	return c.claims.UserID
}

func (c *Client) emit(event session.AuthEvent) {
	c.mu.Lock()
	var raw *session.RawSession
	if c.claims != nil {
		raw = rawFromClaims(c.token, c.claims)
	}
	fns := make([]func(session.AuthEvent, *session.RawSession), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, raw)
	}
}

func rawFromClaims(tok string, claims *pkgjwt.Claims) *session.RawSession {
	return &session.RawSession{
		Subject:        claims.UserID,
		AccessToken:    tok,
		TokenID:        claims.ID,
		Role:           claims.Role,
		InmobiliariaID: claims.InmobiliariaID,
		ExpiresAt:      claims.Expiry(),
	}
}
