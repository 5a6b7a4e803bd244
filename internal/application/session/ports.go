package session

import (
	"context"
	"time"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// AuthEvent cambio de estado de autenticación emitido por el gateway.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// Tablas consultadas por el resolvedor.
const (
	TableUsers         = "usuarios"
	TableInmobiliarias = "inmobiliarias"
)

// RawSession sesión del gateway antes del enriquecimiento de la aplicación.
// Role e InmobiliariaID son los claims crudos del token; pueden venir vacíos o inválidos.
type RawSession struct {
	Subject        string
	AccessToken    string
	TokenID        string
	Role           string
	InmobiliariaID string
	ExpiresAt      time.Time
}

// Row fila devuelta por el gateway (columna -> valor).
type Row map[string]any

// Filter igualdades columna = valor que debe cumplir la fila.
type Filter map[string]any

// Gateway contrato del backend (auth + tablas con seguridad por fila) que consume el núcleo de sesión.
type Gateway interface {
	// CurrentRawSession devuelve nil (sin error) si no hay sesión.
	CurrentRawSession(ctx context.Context) (*RawSession, error)
	OnAuthStateChange(fn func(AuthEvent, *RawSession)) (unsubscribe func())
	// SignOut revoca la sesión cruda. No emite evento hacia los suscriptores del
	// mismo cliente: quien la invoca ya conoce el resultado.
	SignOut(ctx context.Context) error
	// FetchRow devuelve domain.ErrNotFound si ninguna fila cumple el filtro.
	FetchRow(ctx context.Context, table string, filter Filter) (Row, error)
	UpdateRow(ctx context.Context, table string, filter Filter, patch Row) (Row, error)
}

// ProjectionStore persiste la proyección provisional de la sesión entre reinicios.
type ProjectionStore interface {
	Save(ctx context.Context, key string, p entity.Projection) error
	// Load devuelve nil (sin error) si no hay proyección guardada.
	Load(ctx context.Context, key string) (*entity.Projection, error)
	Delete(ctx context.Context, key string) error
}
