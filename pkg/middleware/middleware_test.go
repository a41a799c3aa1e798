package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainer-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestActor(t *testing.T) {
	actorID := uuid.New()
	var seen uuid.UUID
	h := Actor(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetActorIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ActorHeader, actorID.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, actorID, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ActorHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	seen = uuid.Nil
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uuid.Nil, seen)
}

func TestLoggerRecordsActor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Logger(zap.New(core))(Actor(zap.NewNop())(http.HandlerFunc(okHandler)))

	actorID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(ActorHeader, actorID.String())
	h.ServeHTTP(httptest.NewRecorder(), req)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, actorID.String(), entries[0].ContextMap()["actor_id"])
	assert.NotContains(t, entries[1].ContextMap(), "actor_id")
}

func TestRequireActor(t *testing.T) {
	h := Actor(zap.NewNop())(RequireActor(http.HandlerFunc(okHandler)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/", nil)
	req.Header.Set(ActorHeader, uuid.NewString())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServiceToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	h := ServiceToken(string(hash), zap.NewNop())(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong", ServiceTokenHeader, "nope", http.StatusUnauthorized},
		{"header", ServiceTokenHeader, "s3cret", http.StatusOK},
		{"bearer", "Authorization", "Bearer s3cret", http.StatusOK},
		{"malformed bearer", "Authorization", "s3cret", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestServiceTokenDisabled(t *testing.T) {
	h := ServiceToken("", zap.NewNop())(http.HandlerFunc(okHandler))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewRateLimiter(utils.RateLimitConfig{PerMinute: 1, Burst: 2}, zap.NewNop())
	h := limiter.Handler(http.HandlerFunc(okHandler))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"))
}

func TestRateLimiterIgnoresForwardingHeaders(t *testing.T) {
	limiter := NewRateLimiter(utils.RateLimitConfig{PerMinute: 1, Burst: 1}, zap.NewNop())
	h := limiter.Handler(http.HandlerFunc(okHandler))

	limited := 0
	for i := 0; i < 1000; i++ {
		spoofed := fmt.Sprintf("203.0.%d.%d", i/256, i%256)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if i == 0 {
			require.Equal(t, http.StatusOK, rec.Code)
			continue
		}
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 999, limited)
	assert.Equal(t, 1, limiter.clients.Len())
}

func TestRateLimiterBoundsTrackedClients(t *testing.T) {
	limiter := NewRateLimiter(utils.RateLimitConfig{PerMinute: 60, Burst: 1}, zap.NewNop())
	h := limiter.Handler(http.HandlerFunc(okHandler))

	for i := 0; i < maxTrackedClients+50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = fmt.Sprintf("10.%d.%d.%d:80", i>>16&0xff, i>>8&0xff, i&0xff)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, maxTrackedClients, limiter.clients.Len())
}

func TestCORSPreflight(t *testing.T) {
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", ActorHeader+", Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPut, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), http.CanonicalHeaderKey(ActorHeader))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnlistedPreflight(t *testing.T) {
	h := CORS()(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Unknown")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverReturnsInternalError(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
