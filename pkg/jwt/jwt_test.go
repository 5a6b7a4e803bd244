package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Inmobiliaria-crm/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests-0123456789"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testInmoID = "00000000-0000-0000-0000-000000000002"
)

func TestGenerateAndParse_ConRolEInmobiliaria(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.TokenInput{
		UserID: testUserID, InmobiliariaID: testInmoID, Role: "seller", Issuer: "crm-test", ExpMinutes: 60,
	})
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testUserID, claims.Subject)
	assert.Equal(t, testInmoID, claims.InmobiliariaID)
	assert.Equal(t, "seller", claims.Role)
	assert.NotEmpty(t, claims.ID, "cada token lleva un jti")
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expiry(), 5*time.Second)
}

func TestGenerate_JTIUnico(t *testing.T) {
	in := pkgjwt.TokenInput{UserID: testUserID, ExpMinutes: 5}
	a, err := pkgjwt.Generate(testSecret, in)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(testSecret, in)
	require.NoError(t, err)

	ca, _ := pkgjwt.Parse(testSecret, a)
	cb, _ := pkgjwt.Parse(testSecret, b)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.TokenInput{UserID: testUserID, ExpMinutes: -1})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.TokenInput{UserID: testUserID, ExpMinutes: 5})
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", pkgjwt.TokenInput{UserID: testUserID})
	assert.Error(t, err)
}
