package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revive-underground/smart-booking/internal/http/middleware"
)

func testLoginHandler() *AdminLoginHandler {
	return NewAdminLoginHandler(AdminLoginConfig{
		Username:  "owner",
		Password:  "s3cret-pass",
		JWTSecret: "jwt-secret",
		TokenTTL:  time.Hour,
	}, nil)
}

func TestAdminLogin(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantSuccess bool
	}{
		{"valid", `{"username":" owner ","password":"s3cret-pass"}`, http.StatusOK, true},
		{"wrong password", `{"username":"owner","password":"nope"}`, http.StatusUnauthorized, false},
		{"wrong user", `{"username":"admin","password":"s3cret-pass"}`, http.StatusUnauthorized, false},
		{"malformed", `{`, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			testLoginHandler().Login(rec, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp AdminLoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantSuccess, resp.Success)
			if tt.wantSuccess {
				assert.NotEmpty(t, resp.Token)
				require.NotNil(t, resp.ExpiresAt)
			} else {
				assert.Empty(t, resp.Token)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, invalidCredentialsMessage, resp.Message)
			}
		})
	}
}

func TestAdminLogin_TokenOpensAdminRoutes(t *testing.T) {
	rec := httptest.NewRecorder()
	testLoginHandler().Login(rec, httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(`{"username":"owner","password":"s3cret-pass"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AdminLoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	protected := httptest.NewRecorder()
	middleware.AdminJWT("jwt-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.AdminClaimsFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "owner", claims.Subject)
	})).ServeHTTP(protected, req)
	assert.Equal(t, http.StatusOK, protected.Code)
}

func TestAdminLogin_NotConfigured(t *testing.T) {
	h := NewAdminLoginHandler(AdminLoginConfig{Username: "owner"}, nil)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":"owner","password":""}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health("smart-booking")(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"service":"smart-booking"`)
}
