package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bookyard/internal/auth"
	"bookyard/internal/config"
	"bookyard/internal/database"
	"bookyard/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubIntents struct {
	lastAmount   int64
	lastCurrency string
	err          error
}

func (s *stubIntents) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastAmount = amountMinor
	s.lastCurrency = currency
	return fmt.Sprintf("cs_test_%d", amountMinor), nil
}

type testEnv struct {
	ts      *httptest.Server
	db      *database.DB
	tokens  *auth.Manager
	intents *stubIntents
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1
	cfg.Payments.Currency = "usd"
	cfg.Server.ReadHeaderTimeout = 5
	cfg.Server.WriteTimeout = 15
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens := auth.NewManager(cfg.Auth.JWTSecret, time.Hour)
	intents := &stubIntents{}

	// The db itself serves categories; the redis cache layer has its own tests.
	server := NewServer(cfg, db, tokens, intents, db, &logger)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, db: db, tokens: tokens, intents: intents}
}

func (e *testEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test " + role, Role: role}
	require.NoError(t, e.db.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, err := e.tokens.Issue(email)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// doHandler drives a server directly through its handler, without a listener.
func doHandler(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
