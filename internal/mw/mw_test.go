package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"silant-backend/internal/access"
	"silant-backend/internal/auth"
	"silant-backend/internal/model"
	"silant-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCache(t *testing.T) {
	r := gin.New()
	calls := 0
	r.GET("/lookup", Cache(cache.New(time.Minute, time.Minute), time.Minute), func(c *gin.Context) {
		calls++
		if c.Query("serial_number") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"serial_number": c.Query("serial_number")})
	})

	first := serve(r, httptest.NewRequest(http.MethodGet, "/lookup?serial_number=0001", nil))
	second := serve(r, httptest.NewRequest(http.MethodGet, "/lookup?serial_number=0001", nil))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	serve(r, httptest.NewRequest(http.MethodGet, "/lookup", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/lookup", nil))
	assert.Equal(t, 3, calls, "error responses are not cached")
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimiter(1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes = append(codes, serve(r, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(r, other).Code)
}

func TestIPRateLimiter_ReusesBucket(t *testing.T) {
	l := NewIPRateLimiter(1, 1, time.Minute)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/machines/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, httptest.NewRequest(http.MethodGet, "/machines/7", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/machines/:id", fields["route"])
	assert.Equal(t, "/machines/7", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"INTERNAL_ERROR","message":"internal error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/machines/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/machines/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/machines/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	scrape := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := scrape.Body.String()
	assert.Contains(t, out, `silant_http_requests_total{method="GET",route="/machines/:id",status="200"} 2`)
	assert.Contains(t, out, `silant_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, out, "silant_http_request_duration_seconds_bucket")
}

func TestSanitize(t *testing.T) {
	r := gin.New()
	r.Use(Sanitize())
	echo := func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, body)
	}
	r.POST("/", echo)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "markup is stripped",
			body:     `{"name":"<b>Acme</b><script>alert(1)</script>","machine":1000000}`,
			wantCode: http.StatusOK,
			wantBody: `{"name":"Acme","machine":1000000}`,
		},
		{
			name:     "entities survive",
			body:     `{"client":"R&D \"North\""}`,
			wantCode: http.StatusOK,
			wantBody: `{"client":"R&D \"North\""}`,
		},
		{
			name:     "bracketed text is treated as a tag",
			body:     `{"failure_description":"valve <A3> cracked","used_parts":"pressure < 5 bar"}`,
			wantCode: http.StatusOK,
			wantBody: `{"failure_description":"valve  cracked","used_parts":"pressure < 5 bar"}`,
		},
		{
			name:     "not an object",
			body:     `[1,2]`,
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := serve(r, req)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeUsers map[int64]*model.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokens("secret", "silant", time.Hour)
	client := &model.User{ID: 1, Username: "client1", Role: model.RoleClient}
	gone := &model.User{ID: 2, Username: "gone", Role: model.RoleService}
	users := fakeUsers{1: client}

	r := gin.New()
	r.Use(Authenticate(users, tokens, zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		a := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": a.Authenticated(), "role": string(a.Role)})
	})

	valid, _, err := tokens.Issue(client)
	require.NoError(t, err)
	orphan, _, err := tokens.Issue(gone)
	require.NoError(t, err)
	foreign, _, err := auth.NewTokens("other", "silant", time.Hour).Issue(client)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"anonymous", "", http.StatusOK, `{"authenticated":false,"role":""}`},
		{"valid", "Bearer " + valid, http.StatusOK, `{"authenticated":true,"role":"client"}`},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, `{"authenticated":true,"role":"client"}`},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"bad signature", "Bearer " + foreign, http.StatusUnauthorized, ""},
		{"deleted user", "Bearer " + orphan, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"error":"UNAUTHENTICATED"`)
			}
		})
	}
}

func TestActorFrom_DefaultsToAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, access.Anonymous(), ActorFrom(c))
}
