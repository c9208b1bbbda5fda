// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditHTTP "github.com/credvault/credvault/internal/audit/http"
	auditRepository "github.com/credvault/credvault/internal/audit/repository"
	auditUseCase "github.com/credvault/credvault/internal/audit/usecase"
	"github.com/credvault/credvault/internal/config"
	credentialHTTP "github.com/credvault/credvault/internal/credentials/http"
	credentialRepository "github.com/credvault/credvault/internal/credentials/repository"
	credentialUseCase "github.com/credvault/credvault/internal/credentials/usecase"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	"github.com/credvault/credvault/internal/database"
	"github.com/credvault/credvault/internal/http"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	identityRepository "github.com/credvault/credvault/internal/identity/repository"
	identityService "github.com/credvault/credvault/internal/identity/service"
	identityUseCase "github.com/credvault/credvault/internal/identity/usecase"
	"github.com/credvault/credvault/internal/metrics"
	sharingHTTP "github.com/credvault/credvault/internal/sharing/http"
	sharingRepository "github.com/credvault/credvault/internal/sharing/repository"
	sharingUseCase "github.com/credvault/credvault/internal/sharing/usecase"
	vaultHTTP "github.com/credvault/credvault/internal/vault/http"
	vaultRepository "github.com/credvault/credvault/internal/vault/repository"
	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger    *slog.Logger
	db        *sql.DB
	txManager database.TxManager

	// Crypto services
	keyDeriver cryptoService.KeyDeriver
	cipher     cryptoService.Cipher
	keyWrapper cryptoService.KeyWrapper

	// Session state
	sessions *vaultUseCase.SessionManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	userRepo       identityUseCase.UserRepository
	tokenRepo      identityUseCase.TokenRepository
	vaultRepo      vaultUseCase.VaultRepository
	vaultCache     vaultUseCase.VaultCache
	boltCache      *vaultRepository.BoltVaultCache
	credentialRepo credentialUseCase.CredentialRepository
	shareRepo      sharingUseCase.ShareRepository
	auditLogRepo   auditUseCase.AuditLogRepository

	// Services
	tokenService identityService.TokenService

	// Use Cases
	userUseCase       identityUseCase.UserUseCase
	tokenUseCase      identityUseCase.TokenUseCase
	vaultUseCase      vaultUseCase.VaultUseCase
	credentialUseCase credentialUseCase.CredentialUseCase
	shareUseCase      sharingUseCase.ShareUseCase
	auditLogUseCase   auditUseCase.AuditLogUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	cryptoInit            sync.Once
	sessionsInit          sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	userRepoInit          sync.Once
	tokenRepoInit         sync.Once
	vaultRepoInit         sync.Once
	vaultCacheInit        sync.Once
	credentialRepoInit    sync.Once
	shareRepoInit         sync.Once
	auditLogRepoInit      sync.Once
	tokenServiceInit      sync.Once
	userUseCaseInit       sync.Once
	tokenUseCaseInit      sync.Once
	vaultUseCaseInit      sync.Once
	credentialUseCaseInit sync.Once
	shareUseCaseInit      sync.Once
	auditLogUseCaseInit   sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// initCrypto creates the shared crypto services.
func (c *Container) initCrypto() {
	c.cryptoInit.Do(func() {
		c.keyDeriver = cryptoService.NewKDF(c.config.KDFIterations)
		cipher := cryptoService.NewCipher()
		c.cipher = cipher
		c.keyWrapper = cryptoService.NewKeyWrapper(cipher)
	})
}

// KeyDeriver returns the PBKDF2 key derivation service.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.initCrypto()
	return c.keyDeriver
}

// Cipher returns the AES-GCM envelope cipher.
func (c *Container) Cipher() cryptoService.Cipher {
	c.initCrypto()
	return c.cipher
}

// KeyWrapper returns the item-key wrapping service.
func (c *Container) KeyWrapper() cryptoService.KeyWrapper {
	c.initCrypto()
	return c.keyWrapper
}

// SessionManager returns the in-memory vault session manager.
func (c *Container) SessionManager() *vaultUseCase.SessionManager {
	c.sessionsInit.Do(func() {
		c.sessions = vaultUseCase.NewSessionManager()
	})
	return c.sessions
}

// MetricsProvider returns the Prometheus metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (identityUseCase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.userRepo = identityRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.userRepo = identityRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// TokenRepository returns the token repository instance.
func (c *Container) TokenRepository() (identityUseCase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["tokenRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.tokenRepo = identityRepository.NewMySQLTokenRepository(db)
		case "postgres":
			c.tokenRepo = identityRepository.NewPostgreSQLTokenRepository(db)
		default:
			c.initErrors["tokenRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// VaultRepository returns the remote vault record repository instance.
func (c *Container) VaultRepository() (vaultUseCase.VaultRepository, error) {
	c.vaultRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["vaultRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.vaultRepo = vaultRepository.NewMySQLVaultRepository(db)
		case "postgres":
			c.vaultRepo = vaultRepository.NewPostgreSQLVaultRepository(db)
		default:
			c.initErrors["vaultRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["vaultRepo"]; exists {
		return nil, storedErr
	}
	return c.vaultRepo, nil
}

// VaultCache returns the local vault record cache. A no-op cache is returned
// when no cache path is configured.
func (c *Container) VaultCache() (vaultUseCase.VaultCache, error) {
	c.vaultCacheInit.Do(func() {
		if c.config.VaultCachePath == "" {
			c.vaultCache = vaultRepository.NewNoopVaultCache()
			return
		}
		cache, err := vaultRepository.OpenBoltVaultCache(c.config.VaultCachePath)
		if err != nil {
			c.initErrors["vaultCache"] = fmt.Errorf("failed to open vault cache: %w", err)
			return
		}
		c.boltCache = cache
		c.vaultCache = cache
	})
	if storedErr, exists := c.initErrors["vaultCache"]; exists {
		return nil, storedErr
	}
	return c.vaultCache, nil
}

// CredentialRepository returns the credential repository instance.
func (c *Container) CredentialRepository() (credentialUseCase.CredentialRepository, error) {
	c.credentialRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["credentialRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.credentialRepo = credentialRepository.NewMySQLCredentialRepository(db)
		case "postgres":
			c.credentialRepo = credentialRepository.NewPostgreSQLCredentialRepository(db)
		default:
			c.initErrors["credentialRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// ShareRepository returns the share repository instance.
func (c *Container) ShareRepository() (sharingUseCase.ShareRepository, error) {
	c.shareRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["shareRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.shareRepo = sharingRepository.NewMySQLShareRepository(db)
		case "postgres":
			c.shareRepo = sharingRepository.NewPostgreSQLShareRepository(db)
		default:
			c.initErrors["shareRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["shareRepo"]; exists {
		return nil, storedErr
	}
	return c.shareRepo, nil
}

// AuditLogRepository returns the audit log repository instance.
func (c *Container) AuditLogRepository() (auditUseCase.AuditLogRepository, error) {
	c.auditLogRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["auditLogRepo"] = err
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.auditLogRepo = auditRepository.NewMySQLAuditLogRepository(db)
		case "postgres":
			c.auditLogRepo = auditRepository.NewPostgreSQLAuditLogRepository(db)
		default:
			c.initErrors["auditLogRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["auditLogRepo"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepo, nil
}

// TokenService returns the token generation service.
func (c *Container) TokenService() identityService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = identityService.NewTokenService()
	})
	return c.tokenService
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (identityUseCase.UserUseCase, error) {
	c.userUseCaseInit.Do(func() {
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		useCase, err := identityUseCase.NewUserUseCase(userRepo)
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to create user use case: %w", err)
			return
		}
		c.userUseCase = useCase
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// TokenUseCase returns the token use case instance.
func (c *Container) TokenUseCase() (identityUseCase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		tokenRepo, err := c.TokenRepository()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		useCase, err := identityUseCase.NewTokenUseCase(
			userRepo,
			tokenRepo,
			c.TokenService(),
			c.config.AuthTokenExpiration,
		)
		if err != nil {
			c.initErrors["tokenUseCase"] = fmt.Errorf("failed to create token use case: %w", err)
			return
		}
		c.tokenUseCase = useCase
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// VaultUseCase returns the vault use case instance.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		vaultRepo, err := c.VaultRepository()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		vaultCache, err := c.VaultCache()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		credentialRepo, err := c.CredentialRepository()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		shareRepo, err := c.ShareRepository()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		c.vaultUseCase = vaultUseCase.NewVaultUseCase(
			txManager,
			vaultRepo,
			vaultCache,
			credentialRepo,
			shareRepo,
			c.SessionManager(),
			c.KeyDeriver(),
			c.Cipher(),
			c.KeyWrapper(),
		)
	})
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// CredentialUseCase returns the credential use case instance, decorated with
// business metrics.
func (c *Container) CredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	c.credentialUseCaseInit.Do(func() {
		credentialRepo, err := c.CredentialRepository()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
			return
		}
		shareRepo, err := c.ShareRepository()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
			return
		}
		useCase := credentialUseCase.NewCredentialUseCase(
			credentialRepo,
			shareRepo,
			c.SessionManager(),
			c.Cipher(),
			c.KeyWrapper(),
			c.Logger(),
		)
		c.credentialUseCase = credentialUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// ShareUseCase returns the share use case instance, decorated with business
// metrics.
func (c *Container) ShareUseCase() (sharingUseCase.ShareUseCase, error) {
	c.shareUseCaseInit.Do(func() {
		shareRepo, err := c.ShareRepository()
		if err != nil {
			c.initErrors["shareUseCase"] = err
			return
		}
		credentialRepo, err := c.CredentialRepository()
		if err != nil {
			c.initErrors["shareUseCase"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["shareUseCase"] = err
			return
		}
		useCase := sharingUseCase.NewShareUseCase(
			shareRepo,
			credentialRepo,
			c.SessionManager(),
			c.KeyDeriver(),
			c.Cipher(),
			c.KeyWrapper(),
			c.config.ShareLinkHost,
		)
		c.shareUseCase = sharingUseCase.NewShareUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["shareUseCase"]; exists {
		return nil, storedErr
	}
	return c.shareUseCase, nil
}

// AuditLogUseCase returns the audit log use case instance.
func (c *Container) AuditLogUseCase() (auditUseCase.AuditLogUseCase, error) {
	c.auditLogUseCaseInit.Do(func() {
		auditLogRepo, err := c.AuditLogRepository()
		if err != nil {
			c.initErrors["auditLogUseCase"] = err
			return
		}
		c.auditLogUseCase = auditUseCase.NewAuditLogUseCase(auditLogRepo)
	})
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// HTTPServer returns the API HTTP server instance with all routes wired.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.boltCache != nil {
		if err := c.boltCache.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("vault cache close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initHTTPServer assembles the router and creates the HTTP server.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	userUC, err := c.UserUseCase()
	if err != nil {
		return nil, err
	}
	tokenUC, err := c.TokenUseCase()
	if err != nil {
		return nil, err
	}
	vaultUC, err := c.VaultUseCase()
	if err != nil {
		return nil, err
	}
	credentialUC, err := c.CredentialUseCase()
	if err != nil {
		return nil, err
	}
	shareUC, err := c.ShareUseCase()
	if err != nil {
		return nil, err
	}
	auditUC, err := c.AuditLogUseCase()
	if err != nil {
		return nil, err
	}

	routerCfg := http.RouterConfig{
		Logger:           logger,
		GinMode:          c.config.GetGinMode(),
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
		MetricsNamespace: c.config.MetricsNamespace,
		RateLimit: http.RateLimitConfig{
			Enabled:        c.config.RateLimitEnabled,
			RequestsPerSec: c.config.RateLimitRequestsPerSec,
			Burst:          c.config.RateLimitBurst,
		},
		UnlockRateLimit: http.RateLimitConfig{
			Enabled:        c.config.RateLimitUnlockEnabled,
			RequestsPerSec: c.config.RateLimitUnlockRequestsPerSec,
			Burst:          c.config.RateLimitUnlockBurst,
		},
		TokenUseCase:      tokenUC,
		TokenService:      c.TokenService(),
		UserHandler:       identityHTTP.NewUserHandler(userUC, logger),
		TokenHandler:      identityHTTP.NewTokenHandler(tokenUC, logger),
		VaultHandler:      vaultHTTP.NewVaultHandler(vaultUC, auditUC, logger),
		CredentialHandler: credentialHTTP.NewCredentialHandler(credentialUC, auditUC, logger),
		ShareHandler:      sharingHTTP.NewShareHandler(shareUC, auditUC, logger),
		AuditLogHandler:   auditHTTP.NewAuditLogHandler(auditUC, logger),
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		routerCfg.MeterProvider = provider.MeterProvider()
	}

	router := http.NewRouter(routerCfg)

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, logger, router), nil
}
