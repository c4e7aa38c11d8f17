package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/qualistock/pkg/jwt"
)

const (
	testSecret    = "test-secret-key-for-unit-tests"
	testSessionID = "6f1c1f5e-1d7a-4a55-9d0e-7d8a2b0b9c11"
	testUserID    = "42"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSessionID, testUserID, "admin", "qualistock-test", 60)
	require.NoError(t, err)

	sid, uid, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSessionID, sid)
	assert.Equal(t, testUserID, uid)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSessionID, testUserID, "admin", "qualistock-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSessionID, testUserID, "admin", "qualistock-test", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecretOSesion(t *testing.T) {
	_, err := pkgjwt.Generate("", testSessionID, testUserID, "admin", "x", 60)
	assert.Error(t, err)
	_, err = pkgjwt.Generate(testSecret, "", testUserID, "admin", "x", 60)
	assert.Error(t, err)
}

func TestExpiresAt_TokenDelBackend(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	backendTok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret-del-backend"))
	require.NoError(t, err)

	got, ok := pkgjwt.ExpiresAt(backendTok)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestExpiresAt_TokenOpaco(t *testing.T) {
	_, ok := pkgjwt.ExpiresAt("no-es-un-jwt")
	assert.False(t, ok)
}
