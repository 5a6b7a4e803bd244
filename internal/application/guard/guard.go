// Package guard decide, para cada vista protegida, si se muestra, si se pide
// login o si se envía a la página de no autorizado.
package guard

import (
	"net/url"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

// Rutas de redirección.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	nextParam        = "next"
)

// Kind tipo de decisión.
type Kind int

const (
	// Render muestra la vista pedida.
	Render Kind = iota
	// Loading muestra un placeholder neutro mientras la sesión se resuelve.
	Loading
	// RedirectLogin envía a login conservando la ubicación pedida.
	RedirectLogin
	// RedirectUnauthorized envía a la página de no autorizado.
	RedirectUnauthorized
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Decision resultado de Decide. ReturnTo solo viene en RedirectLogin.
type Decision struct {
	Kind     Kind
	ReturnTo string
}

// Location URL a la que redirigir; vacía para Render y Loading.
func (d Decision) Location() string {
	switch d.Kind {
	case RedirectLogin:
		if d.ReturnTo == "" {
			return LoginPath
		}
		return LoginPath + "?" + url.Values{nextParam: {d.ReturnTo}}.Encode()
	case RedirectUnauthorized:
		return UnauthorizedPath
	default:
		return ""
	}
}

// Decide aplica las reglas en orden; la primera que coincide gana. Es una función
// pura: no toca el store ni la sesión.
func Decide(s entity.Session, requested string, required ...entity.Role) Decision {
	switch s.Status {
	case entity.SessionUninitialized, entity.SessionLoading:
		return Decision{Kind: Loading}
	case entity.SessionAnonymous, entity.SessionError:
		return Decision{Kind: RedirectLogin, ReturnTo: requested}
	}

	id := s.Identity
	if id == nil || !id.Active {
		return Decision{Kind: RedirectLogin, ReturnTo: requested}
	}
	if !id.Complete() {
		return Decision{Kind: RedirectUnauthorized}
	}
	if len(required) > 0 && !HasRole(id.Role, required...) {
		return Decision{Kind: RedirectUnauthorized}
	}
	return Decision{Kind: Render}
}

// HasRole informa si role está en allowed.
func HasRole(role entity.Role, allowed ...entity.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
