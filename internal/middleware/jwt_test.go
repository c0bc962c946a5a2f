package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

const testSecret = "test-secret"

func runProtected(token string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	err := AdminAuth(testSecret)(next)(c)
	return rec, err
}

func TestAdminAuthAcceptsAdminToken(t *testing.T) {
	tok, err := utils.NewAdminToken(testSecret, "admin@example.com", 5)
	require.NoError(t, err)

	rec, err := runProtected(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	rec, err := runProtected("")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAdminToken("other-secret", "admin@example.com", 5)
	require.NoError(t, err)

	rec, err := runProtected(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsNonAdminRole(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "guest@example.com",
		"role": "GUEST",
		"exp":  time.Now().Add(5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec, err := runProtected(signed)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
