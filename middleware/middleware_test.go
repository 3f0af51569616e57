package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/services"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type jwtAuthenticator struct {
	jwt *services.JWTService
}

func (a jwtAuthenticator) Authenticate(_ context.Context, token string) (*services.Claims, error) {
	return a.jwt.ValidateToken(token)
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := services.NewJWTService("test-secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Email: "ana@example.com"}
	token, _, err := jwtService.GenerateAuthToken(user)
	require.NoError(t, err)

	var seen primitive.ObjectID
	h := JWTAuthMiddleware(jwtAuthenticator{jwt: jwtService})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r)
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
	assert.Equal(t, user.ID, seen)
}

func TestEnableCORS_Preflight(t *testing.T) {
	called := false
	h := EnableCORS("http://localhost:5173")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/workspaces", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, called)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:4567"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:4567"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestIPRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.9:4567"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		if limiter.Allow(limiter.ClientIP(req)) {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, limiter.limiters.ItemCount())
}

func TestIPRateLimiter_ClientIP(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	req.Header.Set("X-Forwarded-For", "spoofed, 203.0.113.7, 10.0.0.9")

	// untrusted peer: the header is ignored
	assert.Equal(t, "10.0.0.5", limiter.ClientIP(req))

	require.NoError(t, limiter.TrustProxies([]string{"10.0.0.0/8"}))
	assert.Equal(t, "203.0.113.7", limiter.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.7")
	assert.Equal(t, "10.0.0.5", limiter.ClientIP(req))

	require.NoError(t, limiter.TrustProxies([]string{"192.0.2.1"}))
	assert.Equal(t, "10.0.0.5", limiter.ClientIP(req))

	assert.Error(t, limiter.TrustProxies([]string{"not-an-ip"}))
	assert.Error(t, limiter.TrustProxies([]string{"10.0.0.0/99"}))
}

func TestIPRateLimiter_DropsIdleBuckets(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.limiters = cache.New(10*time.Millisecond, 5*time.Millisecond)

	require.True(t, limiter.Allow("192.0.2.1"))
	require.False(t, limiter.Allow("192.0.2.1"))
	assert.Eventually(t, func() bool { return limiter.limiters.ItemCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", RemoteIP(req))

	req.RemoteAddr = "192.0.2.1"
	assert.Equal(t, "192.0.2.1", RemoteIP(req))
}
