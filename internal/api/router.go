package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"silant-backend/config"
	"silant-backend/internal/apperr"
	"silant-backend/internal/auth"
	"silant-backend/internal/mw"
	"silant-backend/internal/service"
	"silant-backend/internal/store"
)

// Options configures NewRouter.
type Options struct {
	Server config.ServerConfig
	Logger *zap.Logger
	// Registry receives the HTTP metrics and is served on /metrics. A
	// fresh registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *service.Service, s store.Store, tokens *auth.Tokens, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := gin.New()
	r.TrustedPlatform = opts.Server.RequestIPHeader
	r.HandleMethodNotAllowed = true

	metrics := mw.NewMetrics(reg)
	// Recovery runs inside the logger and metrics so recovered panics are
	// recorded as 500s.
	r.Use(mw.RequestID(), mw.Logger(log), metrics.Middleware(), mw.Recovery(log))
	if len(opts.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.Server.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", mw.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", mw.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(apperr.Render(apperr.NotFound("route not found")))
	})

	handler := NewHandler(svc, s, log)
	authenticate := mw.Authenticate(s, tokens, log)

	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	public := r.Group("/api/public")
	if opts.Server.RateLimitPerSec > 0 {
		public.Use(mw.RateLimiter(opts.Server.RateLimitPerSec, opts.Server.RateLimitBurst))
	}
	{
		lookup := []gin.HandlerFunc{handler.LookupMachine}
		if ttl := time.Duration(opts.Server.PublicCacheTTLSeconds) * time.Second; ttl > 0 {
			lookup = append([]gin.HandlerFunc{mw.Cache(cache.New(ttl, 2*ttl), ttl)}, lookup...)
		}
		// GET /api/public/machines?serial_number=
		public.GET("/machines", lookup...)
	}

	authGroup := r.Group("/api/auth")
	authGroup.Use(authenticate)
	{
		authGroup.POST("/login", handler.Login)
		authGroup.GET("/me", handler.Me)
	}

	api := r.Group("/api")
	api.Use(authenticate, mw.Sanitize())
	{
		api.GET("/machines", handler.ListMachines)
		api.POST("/machines", handler.CreateMachine)
		api.GET("/machines/:id", handler.GetMachine)
		api.PUT("/machines/:id", handler.UpdateMachine)
		api.PATCH("/machines/:id", handler.UpdateMachine)
		api.DELETE("/machines/:id", handler.DeleteMachine)

		api.GET("/maintenances", handler.ListMaintenances)
		api.POST("/maintenances", handler.CreateMaintenance)
		api.GET("/maintenances/defaults", handler.MaintenanceDefaults)
		api.GET("/maintenances/:id", handler.GetMaintenance)
		api.PUT("/maintenances/:id", handler.UpdateMaintenance)
		api.PATCH("/maintenances/:id", handler.UpdateMaintenance)
		api.DELETE("/maintenances/:id", handler.DeleteMaintenance)

		api.GET("/claims", handler.ListClaims)
		api.POST("/claims", handler.CreateClaim)
		api.GET("/claims/defaults", handler.ClaimDefaults)
		api.GET("/claims/:id", handler.GetClaim)
		api.PUT("/claims/:id", handler.UpdateClaim)
		api.PATCH("/claims/:id", handler.UpdateClaim)
		api.DELETE("/claims/:id", handler.DeleteClaim)

		api.GET("/directories", handler.ListDirectories)
		api.POST("/directories", handler.CreateDirectory)
		api.GET("/directories/:id", handler.GetDirectory)
		api.PUT("/directories/:id", handler.UpdateDirectory)
		api.PATCH("/directories/:id", handler.UpdateDirectory)
		api.DELETE("/directories/:id", handler.DeleteDirectory)

		api.GET("/users", handler.ListUsers)
		api.POST("/users", handler.CreateUser)
	}

	return r
}
