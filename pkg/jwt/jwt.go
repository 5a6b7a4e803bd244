package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role e InmobiliariaID son la fuente de confianza que el resolvedor de sesión
// contrasta con la fila del perfil; pueden venir vacíos en tokens antiguos.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"user_id"`
	InmobiliariaID string `json:"inmobiliaria_id,omitempty"`
	Role           string `json:"role,omitempty"` // "developer" | "admin" | "seller"
}

// TokenInput datos para emitir un token de acceso.
type TokenInput struct {
	UserID         string
	InmobiliariaID string
	Role           string
	Issuer         string
	ExpMinutes     int
}

// Generate genera un token JWT firmado (HS256) con un jti único.
func Generate(secret string, in TokenInput) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    in.Issuer,
			Subject:   in.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(in.ExpMinutes) * time.Minute)),
		},
		UserID:         in.UserID,
		InmobiliariaID: in.InmobiliariaID,
		Role:           in.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("claims inválidos: sin sujeto")
	}
	return claims, nil
}

// Expiry devuelve la expiración del token o el instante cero si no la tiene.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
