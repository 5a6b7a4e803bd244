package entity

import "fmt"

// Role nivel de autorización de un usuario.
type Role string

// Roles válidos.
const (
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
	RoleSeller    Role = "seller"
)

// Roles lista cerrada de roles válidos.
var Roles = []Role{RoleDeveloper, RoleAdmin, RoleSeller}

// ParseRole valida un rol recibido de un claim o de una fila.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("rol desconocido %q", s)
}

// IdentityIssue problema de validación que impide autorizar una identidad.
type IdentityIssue string

const (
	IssueMissingRole      IdentityIssue = "missing_role"
	IssueMissingTenant    IdentityIssue = "missing_tenant"
	IssueInvalidRole      IdentityIssue = "invalid_role"
	IssueRoleMismatch     IdentityIssue = "role_mismatch"
	IssueTenantMismatch   IdentityIssue = "tenant_mismatch"
	IssueProfileMissing   IdentityIssue = "profile_missing"
	IssueProfileMalformed IdentityIssue = "profile_malformed"
)

// Identity usuario de la aplicación ya resuelto (claims del token + fila de perfil).
type Identity struct {
	ID             string
	DisplayName    string
	Email          string
	Role           Role   // vacío = ausente
	InmobiliariaID string // tenant; vacío = ausente
	TenantName     string // solo para mostrar
	Active         bool
	AvatarURL      string
	Issues         []IdentityIssue
}

// Complete informa si rol y tenant están presentes y validados.
func (i *Identity) Complete() bool {
	return i != nil && len(i.Issues) == 0 && i.Role != "" && i.InmobiliariaID != ""
}

// Authorized activo, con rol y con tenant.
func (i *Identity) Authorized() bool {
	return i.Complete() && i.Active
}

// HasIssue informa si la identidad tiene el problema indicado.
func (i *Identity) HasIssue(issue IdentityIssue) bool {
	if i == nil {
		return false
	}
	for _, is := range i.Issues {
		if is == issue {
			return true
		}
	}
	return false
}

// AddIssue agrega un problema si aún no está registrado.
func (i *Identity) AddIssue(issue IdentityIssue) {
	if !i.HasIssue(issue) {
		i.Issues = append(i.Issues, issue)
	}
}
