package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"silant-backend/config"
	"silant-backend/internal/api"
	"silant-backend/internal/auth"
	"silant-backend/internal/service"
	"silant-backend/internal/store/storetest"
)

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *client) call(method, path string, body any) (int, map[string]any, []map[string]any) {
	c.t.Helper()
	var payload *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		payload = strings.NewReader(string(raw))
	} else {
		payload = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var obj map[string]any
	var list []map[string]any
	if w.Body.Len() > 0 {
		if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "[") {
			require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &list))
		} else {
			require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &obj))
		}
	}
	return w.Code, obj, list
}

func login(t *testing.T, router *gin.Engine, username string) *client {
	t.Helper()
	c := &client{t: t, router: router}
	code, body, _ := c.call(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": storetest.Password,
	})
	require.Equal(t, http.StatusOK, code, body)
	c.token = body["token"].(string)
	return c
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// TestRecordLifecycle drives the service through its HTTP surface: every
// role signs in and works with the records it is allowed to see.
func TestRecordLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, _ := storetest.New(t)
	f := storetest.Seed(t, s)
	tokens := auth.NewTokens("integration-secret", "silant", time.Hour)
	svc := service.New(s, tokens, zap.NewNop())
	router := api.NewRouter(svc, s, tokens, api.Options{
		Server: config.ServerConfig{RateLimitPerSec: 50, RateLimitBurst: 50},
	})

	manager := login(t, router, "boss")
	client1 := login(t, router, "client1")
	service1 := login(t, router, "svc1")
	guest := login(t, router, "guest")
	anonymous := &client{t: t, router: router}

	t.Run("visibility per role", func(t *testing.T) {
		for _, tc := range []struct {
			who  *client
			want int
		}{
			{manager, 3}, {client1, 1}, {service1, 1}, {guest, 0},
		} {
			code, _, list := tc.who.call(http.MethodGet, "/api/machines", nil)
			require.Equal(t, http.StatusOK, code)
			assert.Len(t, list, tc.want)
		}
		code, _, _ := anonymous.call(http.MethodGet, "/api/machines", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("inherited visibility", func(t *testing.T) {
		_, _, list := client1.call(http.MethodGet, "/api/maintenances", nil)
		require.Len(t, list, 1)
		assert.Equal(t, float64(f.MaintenanceA.ID), list[0]["id"])

		_, _, list = service1.call(http.MethodGet, "/api/claims", nil)
		require.Len(t, list, 1)
		assert.Equal(t, float64(f.ClaimA.ID), list[0]["id"])
	})

	var serviceRecord float64
	t.Run("service company is forced for service users", func(t *testing.T) {
		code, body, _ := service1.call(http.MethodPost, "/api/maintenances", map[string]any{
			"machine":          f.MachineA.ID,
			"maintenance_type": f.TypeTO1.ID,
			"date":             "2024-08-01",
			"operating_time":   800,
			"order_number":     "ORD-100",
			"order_date":       "2024-07-31",
			"service_company":  f.OtherCo.ID,
		})
		require.Equal(t, http.StatusCreated, code, body)
		assert.Equal(t, "Acme Service", body["service_company"].(map[string]any)["name"])
		serviceRecord = body["id"].(float64)

		// Saving again without changes yields the same company.
		code, body, _ = service1.call(http.MethodPatch, "/api/maintenances/"+id(int64(serviceRecord)), map[string]any{})
		require.Equal(t, http.StatusOK, code, body)
		assert.Equal(t, "Acme Service", body["service_company"].(map[string]any)["name"])
	})

	t.Run("client maintenance is self-performed", func(t *testing.T) {
		code, body, _ := client1.call(http.MethodPost, "/api/maintenances", map[string]any{
			"machine":          f.MachineA.ID,
			"maintenance_type": f.TypeTO2.ID,
			"date":             "2024-08-15",
			"operating_time":   850,
			"order_number":     "ORD-101",
			"order_date":       "2024-08-14",
			"service_company":  f.AcmeService.ID,
		})
		require.Equal(t, http.StatusCreated, code, body)
		assert.Equal(t, "self-performed", body["service_company"].(map[string]any)["name"])
	})

	t.Run("client cannot delete claims", func(t *testing.T) {
		code, body, _ := client1.call(http.MethodDelete, "/api/claims/"+id(f.ClaimA.ID), nil)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "FORBIDDEN", body["error"])

		code, _, _ = manager.call(http.MethodGet, "/api/claims/"+id(f.ClaimA.ID), nil)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("guest sees empty lists", func(t *testing.T) {
		for _, path := range []string{"/api/machines", "/api/maintenances", "/api/claims", "/api/directories"} {
			code, _, list := guest.call(http.MethodGet, path, nil)
			assert.Equal(t, http.StatusOK, code, path)
			assert.Empty(t, list, path)
		}
		code, _, _ := guest.call(http.MethodGet, "/api/machines/"+id(f.MachineA.ID), nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("directory deletion keeps records", func(t *testing.T) {
		code, _, _ := manager.call(http.MethodDelete, "/api/directories/"+id(f.AcmeService.ID), nil)
		require.Equal(t, http.StatusNoContent, code)

		code, body, _ := manager.call(http.MethodGet, "/api/maintenances/"+id(int64(serviceRecord)), nil)
		require.Equal(t, http.StatusOK, code)
		assert.Nil(t, body["service_company"])

		// With its company gone, the service user's value passes through.
		code, body, _ = service1.call(http.MethodPatch, "/api/maintenances/"+id(int64(serviceRecord)), map[string]any{
			"service_company": f.OtherCo.ID,
		})
		require.Equal(t, http.StatusOK, code, body)
		assert.Equal(t, "Other Co", body["service_company"].(map[string]any)["name"])
	})

	t.Run("machine deletion removes its records", func(t *testing.T) {
		code, _, _ := manager.call(http.MethodDelete, "/api/machines/"+id(f.MachineB.ID), nil)
		require.Equal(t, http.StatusNoContent, code)

		code, _, _ = manager.call(http.MethodGet, "/api/maintenances/"+id(f.MaintenanceB.ID), nil)
		assert.Equal(t, http.StatusNotFound, code)
		code, _, _ = manager.call(http.MethodGet, "/api/claims/"+id(f.ClaimB.ID), nil)
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = anonymous.call(http.MethodGet, "/api/public/machines?serial_number=0002", nil)
		assert.Equal(t, http.StatusNotFound, code)
		code, body, _ := anonymous.call(http.MethodGet, "/api/public/machines?serial_number=0001", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "D160", body["model"])
	})
}
