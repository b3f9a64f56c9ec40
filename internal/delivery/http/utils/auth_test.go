package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthManager_TokenRoundTrip(t *testing.T) {
	authManager := NewAuthManager([]byte("secret"), time.Hour)

	token, err := authManager.CreateToken(42)
	require.NoError(t, err)

	userID, err := authManager.CheckAuth(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestAuthManager_InvalidToken(t *testing.T) {
	authManager := NewAuthManager([]byte("secret"), time.Hour)

	_, err := authManager.CheckAuth("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Токен, подписанный другим ключом, не принимается
	otherManager := NewAuthManager([]byte("other"), time.Hour)
	token, err := otherManager.CreateToken(1)
	require.NoError(t, err)
	_, err = authManager.CheckAuth(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthManager_ExpiredToken(t *testing.T) {
	authManager := NewAuthManager([]byte("secret"), -time.Minute)

	token, err := authManager.CreateToken(1)
	require.NoError(t, err)
	_, err = authManager.CheckAuth(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckAuthFromContext(t *testing.T) {
	authManager := NewAuthManager([]byte("secret"), time.Hour)
	token, err := authManager.CreateToken(7)
	require.NoError(t, err)

	e := echo.New()

	// Без cookie — не авторизован
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	_, err = authManager.CheckAuthFromContext(c)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// С сессионной cookie — авторизован
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	c = e.NewContext(req, httptest.NewRecorder())
	userID, err := authManager.CheckAuthFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}
