package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/jobtrailapp/jobtrail-server/internal/auth"
	"github.com/jobtrailapp/jobtrail-server/internal/service"
	"github.com/jobtrailapp/jobtrail-server/internal/store/sqlite"
	"github.com/jobtrailapp/jobtrail-server/internal/validation"
)

// apiTestServer wraps the API server for handler testing.
type apiTestServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
	cleanup      func()
}

// setupTestServer creates a fully wired server backed by a temp database.
func setupTestServer(t *testing.T) *apiTestServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "jobtrail-api-test-*")
	require.NoError(t, err)

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	validator := validation.New()

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, validator, logger)

	services := &Services{
		Auth:       authService,
		Session:    sessionService,
		Job:        service.NewJobService(st, validator, logger),
		Bullet:     service.NewBulletService(st, validator, logger),
		Experience: service.NewExperienceService(st, validator, logger),
	}

	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("JobTrail API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(1000, time.Minute, 500),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerJobRoutes()
	s.registerBulletRoutes()
	s.registerExperienceRoutes()

	cleanup := func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &apiTestServer{
		Server:       s,
		api:          humatest.Wrap(t, api),
		tokenService: tokenService,
		cleanup:      cleanup,
	}
}

// registerTestUser registers a user via the API and returns an access token.
func (ts *apiTestServer) registerTestUser(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken
}

// decodeBody unmarshals a test response body into T.
func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}
