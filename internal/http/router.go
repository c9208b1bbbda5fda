package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/credvault/credvault/internal/audit/http"
	credentialHTTP "github.com/credvault/credvault/internal/credentials/http"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	identityService "github.com/credvault/credvault/internal/identity/service"
	identityUseCase "github.com/credvault/credvault/internal/identity/usecase"
	"github.com/credvault/credvault/internal/metrics"
	sharingHTTP "github.com/credvault/credvault/internal/sharing/http"
	vaultHTTP "github.com/credvault/credvault/internal/vault/http"
)

// RateLimitConfig describes a rate limit applied by the router.
type RateLimitConfig struct {
	Enabled        bool
	RequestsPerSec float64
	Burst          int
}

// RouterConfig holds everything the router needs to assemble the API surface.
type RouterConfig struct {
	Logger *slog.Logger

	GinMode string

	CORSEnabled      bool
	CORSAllowOrigins string

	// MeterProvider is nil when metrics are disabled.
	MeterProvider    metric.MeterProvider
	MetricsNamespace string

	// RateLimit applies per user to authenticated endpoints. UnlockRateLimit
	// applies per client IP to token issuance and per user to vault unlock,
	// both brute-force sensitive.
	RateLimit       RateLimitConfig
	UnlockRateLimit RateLimitConfig

	TokenUseCase identityUseCase.TokenUseCase
	TokenService identityService.TokenService

	UserHandler       *identityHTTP.UserHandler
	TokenHandler      *identityHTTP.TokenHandler
	VaultHandler      *vaultHTTP.VaultHandler
	CredentialHandler *credentialHTTP.CredentialHandler
	ShareHandler      *sharingHTTP.ShareHandler
	AuditLogHandler   *auditHTTP.AuditLogHandler
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(cfg.Logger))
	router.Use(gin.Recovery())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, cfg.Logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public endpoints. Token issuance is rate limited per client IP.
	v1 := router.Group("/v1")
	v1.POST("/users", cfg.UserHandler.RegisterUserHandler)

	tokenHandlers := []gin.HandlerFunc{}
	if cfg.UnlockRateLimit.Enabled {
		tokenHandlers = append(tokenHandlers, identityHTTP.IPRateLimitMiddleware(
			cfg.UnlockRateLimit.RequestsPerSec,
			cfg.UnlockRateLimit.Burst,
			cfg.Logger,
		))
	}
	tokenHandlers = append(tokenHandlers, cfg.TokenHandler.IssueTokenHandler)
	v1.POST("/token", tokenHandlers...)

	// Authenticated endpoints.
	authenticated := v1.Group("")
	authenticated.Use(identityHTTP.AuthenticationMiddleware(cfg.TokenUseCase, cfg.TokenService, cfg.Logger))
	if cfg.RateLimit.Enabled {
		authenticated.Use(identityHTTP.RateLimitMiddleware(
			cfg.RateLimit.RequestsPerSec,
			cfg.RateLimit.Burst,
			cfg.Logger,
		))
	}

	authenticated.GET("/vault", cfg.VaultHandler.StatusHandler)
	authenticated.POST("/vault", cfg.VaultHandler.SetupHandler)
	authenticated.POST("/vault/lock", cfg.VaultHandler.LockHandler)
	authenticated.POST("/vault/password", cfg.VaultHandler.ChangePasswordHandler)

	unlockHandlers := []gin.HandlerFunc{}
	if cfg.UnlockRateLimit.Enabled {
		unlockHandlers = append(unlockHandlers, identityHTTP.RateLimitMiddleware(
			cfg.UnlockRateLimit.RequestsPerSec,
			cfg.UnlockRateLimit.Burst,
			cfg.Logger,
		))
	}
	unlockHandlers = append(unlockHandlers, cfg.VaultHandler.UnlockHandler)
	authenticated.POST("/vault/unlock", unlockHandlers...)

	authenticated.POST("/credentials", cfg.CredentialHandler.SaveHandler)
	authenticated.GET("/credentials", cfg.CredentialHandler.ListHandler)
	authenticated.PUT("/credentials/:id", cfg.CredentialHandler.UpdateHandler)
	authenticated.DELETE("/credentials/:id", cfg.CredentialHandler.DeleteHandler)

	authenticated.POST("/shares", cfg.ShareHandler.CreateHandler)
	authenticated.GET("/shares", cfg.ShareHandler.ListOwnedHandler)
	authenticated.POST("/shares/:id/resolve", cfg.ShareHandler.ResolveHandler)
	authenticated.POST("/shares/:id/accept", cfg.ShareHandler.AcceptHandler)
	authenticated.DELETE("/shares/:id", cfg.ShareHandler.RevokeHandler)

	authenticated.GET("/audit-logs", cfg.AuditLogHandler.ListHandler)

	return router
}
