package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/config"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/denylist"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/mocks"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/server"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminUser     = "admin"
	adminPassword = "s3cret-pass"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                    "development",
		AccessTokenSecret:      "access-secret",
		RefreshTokenSecret:     "refresh-secret",
		AccessExpiryMin:        15,
		RefreshExpiryMin:       10080,
		MaxActiveRefreshTokens: 10,
		TokenCleanupSchedule:   "@every 1h",
		FrontendURL:            "http://localhost:3000",
		BodyLimitMB:            1,
	}
}

type testServer struct {
	*server.Server
	handle db.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	handle, err := db.Open(ctx, db.Options{Driver: db.DriverSQLite, Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(handle.Close)

	mr := miniredis.RunT(t)
	revoked := denylist.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	s, err := server.New(testConfig(), handle, revoked, mocks.NewMockExtractor(gomock.NewController(t)), zap.NewNop())
	require.NoError(t, err)

	_, err = s.Users.EnsureUser(ctx, adminUser, adminPassword)
	require.NoError(t, err)

	return &testServer{Server: s, handle: handle}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) login(t *testing.T) (access, refresh *http.Cookie) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": adminUser, "password": adminPassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return cookie(t, resp, constant.AccessTokenCookie), cookie(t, resp, constant.RefreshTokenCookie)
}

func cookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body server.HealthResponse
	decode(t, resp, &body)
	assert.Equal(t, server.HealthResponse{Status: "ok", Database: "connected", Backend: db.DriverSQLite}, body)
}

func TestHealth_DatabaseDown(t *testing.T) {
	s := newTestServer(t)
	s.handle.Close()

	resp := s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body server.HealthResponse
	decode(t, resp, &body)
	assert.Equal(t, "unreachable", body.Database)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	t.Run("protected routes need a session", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/creditors", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("login grants access", func(t *testing.T) {
		access, _ := s.login(t)
		resp := s.do(t, http.MethodGet, "/api/creditors", nil, access)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("a tampered access token is rejected", func(t *testing.T) {
		access, _ := s.login(t)
		tampered := &http.Cookie{Name: access.Name, Value: access.Value + "x"}
		resp := s.do(t, http.MethodGet, "/api/creditors", nil, tampered)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("refresh rotates and the old token dies", func(t *testing.T) {
		_, refresh := s.login(t)

		resp := s.do(t, http.MethodPost, "/api/auth/refresh", nil, refresh)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		rotated := cookie(t, resp, constant.RefreshTokenCookie)
		assert.NotEqual(t, refresh.Value, rotated.Value)
		newAccess := cookie(t, resp, constant.AccessTokenCookie)

		resp = s.do(t, http.MethodGet, "/api/customers", nil, newAccess)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		// Replaying the rotated token ends every session of the user.
		resp = s.do(t, http.MethodPost, "/api/auth/refresh", nil, refresh)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		resp = s.do(t, http.MethodPost, "/api/auth/refresh", nil, rotated)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("logout revokes both tokens", func(t *testing.T) {
		access, refresh := s.login(t)

		resp := s.do(t, http.MethodPost, "/api/auth/logout", nil, access, refresh)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = s.do(t, http.MethodPost, "/api/auth/refresh", nil, refresh)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		resp = s.do(t, http.MethodGet, "/api/creditors", nil, access)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("swept tokens cannot be refreshed", func(t *testing.T) {
		_, refresh := s.login(t)

		_, err := s.handle.Exec(context.Background(), "UPDATE refresh_tokens SET expires_at = $1", 1)
		require.NoError(t, err)

		n, err := s.Sweeper.Sweep(context.Background())
		require.NoError(t, err)
		assert.Positive(t, n)

		resp := s.do(t, http.MethodPost, "/api/auth/refresh", nil, refresh)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestReceiptFlow(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login(t)

	resp := s.do(t, http.MethodPost, "/api/customers", map[string]any{
		"name":           "Ali",
		"expectedAmount": 1000,
		"maturityDate":   "1403/05/01",
	}, access)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var customer struct {
		ID              string  `json:"id"`
		CollectedAmount float64 `json:"collectedAmount"`
	}
	decode(t, resp, &customer)
	assert.Zero(t, customer.CollectedAmount)

	receipt := map[string]any{
		"customerId": customer.ID,
		"amount":     250,
		"date":       "1403/04/10",
		"refNumber":  "REF-1",
		"imageUrl":   "data:image/jpeg;base64,AAAA",
	}
	resp = s.do(t, http.MethodPost, "/api/receipts", receipt, access)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/receipts", receipt, access)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/customers/"+customer.ID, nil, access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &customer)
	assert.Equal(t, 250.0, customer.CollectedAmount)

	resp = s.do(t, http.MethodGet, "/api/receipts/customer/"+customer.ID, nil, access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var receipts []map[string]any
	decode(t, resp, &receipts)
	assert.Len(t, receipts, 1)

	receipt["customerId"] = "missing"
	receipt["refNumber"] = "REF-2"
	resp = s.do(t, http.MethodPost, "/api/receipts", receipt, access)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	assert.NotEmpty(t, body.Message)
}
