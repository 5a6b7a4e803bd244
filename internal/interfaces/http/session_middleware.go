package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/guard"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// Locals keys del cliente y su sesión en Fiber.
const (
	LocalClientID = "client_id"
	LocalStore    = "session_store"
	LocalIdentity = "identity"
)

// retryAfterSeconds sugerencia al cliente cuando la sesión sigue cargando.
const retryAfterSeconds = 1

// SessionConfig parámetros de la cookie y de la espera de resolución.
type SessionConfig struct {
	CookieName string
	Wait       time.Duration
	Secure     bool
}

// ClientSession identifica al cliente por su cookie (la emite si falta o no es un
// UUID) y deja en Locals su Store. La primera visita dispara la resolución.
func ClientSession(reg *session.Registry, cfg SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cfg.CookieName)
		if _, err := uuid.Parse(sid); err != nil {
			sid = newClientCookie(c, cfg)
		}

		st := reg.Get(sid)
		switch st.Current().Status {
		case entity.SessionUninitialized, entity.SessionError:
			st.Initialize()
		}

		c.Locals(LocalClientID, sid)
		c.Locals(LocalStore, st)
		return c.Next()
	}
}

// newClientCookie emite una cookie de cliente nueva y devuelve su id.
func newClientCookie(c *fiber.Ctx, cfg SessionConfig) string {
	sid := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return sid
}

// RequireSession espera la resolución (hasta cfg.Wait) y aplica el guard de rutas.
// Sin roles basta con una identidad autorizada.
func RequireSession(cfg SessionConfig, roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := GetStore(c)
		if st == nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "sesión de cliente no inicializada"})
		}

		s := waitSession(c, st, cfg.Wait)
		d := guard.Decide(s, c.OriginalURL(), roles...)
		zerolog.Ctx(c.UserContext()).Debug().
			Str("decision", d.Kind.String()).
			Str("status", s.Status.String()).
			Msg("guard de ruta")

		switch d.Kind {
		case guard.Render:
			c.Locals(LocalIdentity, s.Identity)
			return c.Next()
		case guard.Loading:
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
			return c.Status(fiber.StatusAccepted).JSON(dto.ErrorResponse{Code: "SESSION_LOADING", Message: "la sesión se está resolviendo"})
		case guard.RedirectLogin:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "LOGIN_REQUIRED", Message: "inicie sesión para continuar", Redirect: d.Location()})
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta sección", Redirect: d.Location()})
		}
	}
}

func waitSession(c *fiber.Ctx, st *session.Store, wait time.Duration) entity.Session {
	if s := st.Current(); s.Resolved() || wait <= 0 {
		return s
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), wait)
	defer cancel()
	// si vence el plazo se devuelve el valor actual (Loading) y decide el guard
	s, _ := st.Wait(ctx)
	return s
}

// GetClientID devuelve el id de cliente (cookie) del contexto.
func GetClientID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalClientID).(string)
	return s
}

// GetStore devuelve el Store del cliente (después de ClientSession).
func GetStore(c *fiber.Ctx) *session.Store {
	st, _ := c.Locals(LocalStore).(*session.Store)
	return st
}

// GetIdentity devuelve la identidad autorizada (después de RequireSession).
func GetIdentity(c *fiber.Ctx) *entity.Identity {
	id, _ := c.Locals(LocalIdentity).(*entity.Identity)
	return id
}
