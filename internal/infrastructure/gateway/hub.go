// Package gateway implementa session.Gateway sobre PostgreSQL (filas) y Redis
// (tokens y revocaciones). El Hub reparte un Client por cookie de sesión.
package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/infrastructure/redisstore"
	pkgjwt "github.com/jhoicas/Inmobiliaria-crm/pkg/jwt"
)

// RowAccess acceso genérico a filas (lo implementa postgres.RowStore).
type RowAccess interface {
	FetchRow(ctx context.Context, table string, filter map[string]any) (map[string]any, error)
	UpdateRow(ctx context.Context, table string, filter, patch map[string]any) (map[string]any, error)
}

// HubConfig dependencias del Hub.
type HubConfig struct {
	Secret      string
	Rows        RowAccess
	Tokens      *redisstore.TokenStore
	Revocations *redisstore.Revocations
	Log         zerolog.Logger
}

// pendingRevoke cierre de sesión local cuya revocación en Redis falló. Sobrevive
// a Release: un Client nuevo para la misma cookie no vuelve a cargar ese token.
type pendingRevoke struct {
	tokenID string    // "" si el token no se llegó a leer
	until   time.Time // expiración del token; cero si no se conoce
}

// matches informa si el token guardado es el que se cerró localmente.
func (p pendingRevoke) matches(claims *pkgjwt.Claims) bool {
	if claims == nil {
		return false
	}
	return p.tokenID == "" || p.tokenID == claims.ID
}

// Hub registro de clientes del gateway.
type Hub struct {
	cfg HubConfig

	mu      sync.Mutex
	clients map[string]*Client
	pending map[string]pendingRevoke
}

// NewHub construye el Hub.
func NewHub(cfg HubConfig) *Hub {
	return &Hub{
		cfg:     cfg,
		clients: make(map[string]*Client),
		pending: make(map[string]pendingRevoke),
	}
}

// Client devuelve el gateway del cliente, creándolo si no existe.
func (h *Hub) Client(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[clientID]
	if !ok {
		c = newClient(h, clientID)
		h.clients[clientID] = c
	}
	return c
}

// Gateway adapta Client a session.GatewayFactory.
func (h *Hub) Gateway(clientID string) session.Gateway {
	return h.Client(clientID)
}

// Bind asocia un token recién emitido al cliente y notifica event a sus suscriptores.
// El token que reemplaza (login sobre una sesión viva o renovación) queda revocado.
func (h *Hub) Bind(ctx context.Context, clientID, token string, event session.AuthEvent) error {
	claims, err := pkgjwt.Parse(h.cfg.Secret, token)
	if err != nil {
		return fmt.Errorf("token a vincular inválido: %w", err)
	}
	c := h.Client(clientID)
	// si Redis falla aquí, Set también fallará
	prev, _ := c.load(ctx)

	if err := h.cfg.Tokens.Set(ctx, clientID, token, claims.Expiry()); err != nil {
		return err
	}
	h.mu.Lock()
	if p, ok := h.pending[clientID]; ok && p.tokenID == "" {
		// el token desconocido quedó pisado por Set
		delete(h.pending, clientID)
	}
	h.mu.Unlock()
	c.setToken(token, claims)

	if prev != nil && prev.ID != claims.ID {
		if err := h.cfg.Revocations.Revoke(ctx, prev.ID, prev.Expiry()); err != nil {
			h.cfg.Log.Warn().Err(err).Str("client_id", clientID).Msg("no se pudo revocar el token reemplazado")
		}
	}
	c.emit(event)
	return nil
}

// revoke revoca el token del cliente y lo borra de Redis. Si falla, el cierre
// local queda registrado hasta que RetryRevocations lo complete.
func (h *Hub) revoke(ctx context.Context, clientID string, claims *pkgjwt.Claims) error {
	var err error
	if claims == nil {
		err = h.cfg.Tokens.Delete(ctx, clientID)
	} else {
		err = h.cfg.Revocations.RevokeAndForget(ctx, h.cfg.Tokens, clientID, claims.ID, claims.Expiry())
	}
	if err != nil {
		p := pendingRevoke{}
		if claims != nil {
			p = pendingRevoke{tokenID: claims.ID, until: claims.Expiry()}
		}
		h.markSignedOut(clientID, p)
		return err
	}
	h.mu.Lock()
	delete(h.pending, clientID)
	h.mu.Unlock()
	return nil
}

func (h *Hub) markSignedOut(clientID string, p pendingRevoke) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.pending[clientID]; ok && cur.tokenID != "" && p.tokenID == "" {
		return
	}
	h.pending[clientID] = p
}

// signedOut informa si claims corresponde a un cierre local aún sin revocar.
func (h *Hub) signedOut(clientID string, claims *pkgjwt.Claims) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pending[clientID]
	return ok && p.matches(claims)
}

// PendingRevocations cantidad de cierres de sesión con revocación pendiente.
func (h *Hub) PendingRevocations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// RetryRevocations reintenta las revocaciones pendientes. Devuelve cuántas completó.
func (h *Hub) RetryRevocations(ctx context.Context) int {
	h.mu.Lock()
	snapshot := make(map[string]pendingRevoke, len(h.pending))
	for id, p := range h.pending {
		snapshot[id] = p
	}
	h.mu.Unlock()

	done := 0
	for id, p := range snapshot {
		expired := !p.until.IsZero() && !time.Now().Before(p.until)
		if !expired {
			if err := h.retryRevoke(ctx, id, p); err != nil {
				h.cfg.Log.Warn().Err(err).Str("client_id", id).Msg("revocación pendiente sigue fallando")
				continue
			}
		}
		h.mu.Lock()
		if cur, ok := h.pending[id]; ok && cur == p {
			delete(h.pending, id)
		}
		h.mu.Unlock()
		done++
	}
	return done
}

func (h *Hub) retryRevoke(ctx context.Context, clientID string, p pendingRevoke) error {
	tok, err := h.cfg.Tokens.Get(ctx, clientID)
	if err != nil {
		return err
	}
	var stored *pkgjwt.Claims
	if tok != "" {
		// inválido o expirado: nadie lo vuelve a cargar
		stored, _ = pkgjwt.Parse(h.cfg.Secret, tok)
	}
	switch {
	case p.matches(stored):
		return h.cfg.Revocations.RevokeAndForget(ctx, h.cfg.Tokens, clientID, stored.ID, stored.Expiry())
	case p.tokenID != "":
		// la cookie ya tiene otro token: solo falta revocar el viejo
		return h.cfg.Revocations.Revoke(ctx, p.tokenID, p.until)
	default:
		return nil
	}
}

// RunRevocationRetries reintenta las revocaciones pendientes cada every hasta que ctx termine.
func (h *Hub) RunRevocationRetries(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if h.PendingRevocations() == 0 {
				continue
			}
			if n := h.RetryRevocations(ctx); n > 0 {
				h.cfg.Log.Info().Int("completed", n).Msg("revocaciones pendientes completadas")
			}
		}
	}
}

// NotifyUser envía event a todos los clientes cuya sesión pertenece a userID
// (por ejemplo, al desactivar la cuenta).
func (h *Hub) NotifyUser(userID string, event session.AuthEvent) int {
	h.mu.Lock()
	var targets []*Client
	for _, c := range h.clients {
		if c.subject() == userID {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.emit(event)
	}
	return len(targets)
}

// Release olvida el cliente en memoria (el token sigue en Redis hasta expirar;
// un cierre de sesión con revocación pendiente se conserva).
func (h *Hub) Release(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, clientID)
}
