package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":   int64(7),
		"email": "u@example.com",
		"role":  "USER",
		"tv":    1,
		"iat":   now.Unix(),
		"exp":   now.Add(15 * time.Minute).Unix(),
	}
}

func runAuthJWT(authz string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	h := AuthJWT(config.Config{JWTSecret: testSecret})(func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)

	return rec, captured
}

func TestAuthJWTValidToken(t *testing.T) {
	token := signedToken(t, testSecret, validClaims())

	rec, c := runAuthJWT("Bearer " + token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c)

	assert.Equal(t, int64(7), c.Get(CtxUserIDKey))
	assert.Equal(t, "u@example.com", c.Get(CtxUserEmailKey))
	assert.Equal(t, "USER", c.Get(CtxUserRoleKey))
	assert.Equal(t, 1, c.Get(CtxTokenVersionKey))
}

func TestAuthJWTMissingHeader(t *testing.T) {
	rec, _ := runAuthJWT("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWTNotBearer(t *testing.T) {
	rec, _ := runAuthJWT("Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWTWrongSecret(t *testing.T) {
	token := signedToken(t, "another_secret", validClaims())

	rec, _ := runAuthJWT("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWTExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signedToken(t, testSecret, claims)

	rec, _ := runAuthJWT("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
