package entity

// SessionStatus estados del ciclo de vida de la sesión de un cliente.
type SessionStatus int

const (
	SessionUninitialized SessionStatus = iota
	SessionLoading
	SessionAuthenticated
	SessionAnonymous
	SessionError
)

func (s SessionStatus) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	case SessionError:
		return "error"
	default:
		return "uninitialized"
	}
}

// Session valor resuelto para un cliente. Identity solo está presente en
// SessionAuthenticated; Cause en SessionError y, opcionalmente, en SessionAnonymous
// (por ejemplo cuenta inactiva).
type Session struct {
	Status   SessionStatus
	Identity *Identity
	Cause    error
}

func UninitializedSession() Session { return Session{Status: SessionUninitialized} }
func LoadingSession() Session       { return Session{Status: SessionLoading} }

// AnonymousSession sesión sin usuario; cause puede ser nil.
func AnonymousSession(cause error) Session {
	return Session{Status: SessionAnonymous, Cause: cause}
}

func ErrorSession(cause error) Session {
	return Session{Status: SessionError, Cause: cause}
}

func AuthenticatedSession(id *Identity) Session {
	return Session{Status: SessionAuthenticated, Identity: id}
}

// Resolved informa si la sesión llegó a un estado terminal.
func (s Session) Resolved() bool {
	return s.Status != SessionUninitialized && s.Status != SessionLoading
}

// Projection subconjunto persistible de la sesión, solo para pintar la UI antes de
// que termine la resolución. Nunca se usa para decidir acceso.
type Projection struct {
	Authenticated bool   `json:"authenticated"`
	Role          Role   `json:"role,omitempty"`
	TenantName    string `json:"tenant_name,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
}

// Project reduce la sesión a su proyección persistible.
func (s Session) Project() Projection {
	if s.Status != SessionAuthenticated || s.Identity == nil {
		return Projection{}
	}
	return Projection{
		Authenticated: true,
		Role:          s.Identity.Role,
		TenantName:    s.Identity.TenantName,
		DisplayName:   s.Identity.DisplayName,
	}
}
