package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ReturnsTokensAndUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "new@test.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[AuthResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, body.AccessToken)
	assert.NotEmpty(t, body.RefreshToken)
	assert.NotEmpty(t, body.SessionID)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Positive(t, body.ExpiresIn)
	assert.Equal(t, "new@test.com", body.User.Email)

	claims, err := ts.tokenService.VerifyAccessToken(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerTestUser(t, "dup@test.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "DUP@test.com",
		"password": "TestPassword123!",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerTestUser(t, "login@test.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "login@test.com",
		"password": "WrongPassword123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "login@test.com",
		"password": "TestPassword123!",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "rotate@test.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	first := decodeBody[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	second := decodeBody[AuthResponse](t, resp.Body.Bytes())

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.SessionID, second.SessionID)

	// The old refresh token no longer works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "logout@test.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	auth := decodeBody[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": auth.SessionID,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": auth.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "me@test.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[UserResponse](t, resp.Body.Bytes())
	assert.Equal(t, "me@test.com", body.Email)
}

func TestDeleteSessions_LogoutEverywhere(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "everywhere@test.com")

	// A second login adds a second session.
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "everywhere@test.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/users/me/sessions", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	sessions := decodeBody[ListSessionsResponse](t, resp.Body.Bytes())
	require.Len(t, sessions.Sessions, 2)

	resp = ts.api.Delete("/api/v1/users/me/sessions", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	revoked := decodeBody[DeleteSessionsResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, revoked.SessionsRevoked)
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", body.Status)
}
