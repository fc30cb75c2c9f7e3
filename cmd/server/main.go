// Command server runs the licensevault HTTP API: the authentication and
// session surface, the license activation/management surface, and the
// middleware chain (security headers, CORS, three-tier throttling, JWT +
// session-liveness validation). Background task processing lives in the
// sibling worker process.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	identitycommands "github.com/yegamble/licensevault/internal/application/identity/commands"
	identityqueries "github.com/yegamble/licensevault/internal/application/identity/queries"
	applicense "github.com/yegamble/licensevault/internal/application/license"
	licensecommands "github.com/yegamble/licensevault/internal/application/license/commands"
	licensequeries "github.com/yegamble/licensevault/internal/application/license/queries"
	"github.com/yegamble/licensevault/internal/application/throttle"
	"github.com/yegamble/licensevault/internal/config"
	asynqinfra "github.com/yegamble/licensevault/internal/infrastructure/jobs/asynq"
	"github.com/yegamble/licensevault/internal/infrastructure/persistence/postgres"
	inframredis "github.com/yegamble/licensevault/internal/infrastructure/persistence/redis"
	"github.com/yegamble/licensevault/internal/infrastructure/security/jwt"
	"github.com/yegamble/licensevault/internal/infrastructure/security/verification"
	"github.com/yegamble/licensevault/internal/interfaces/http/handlers"
	"github.com/yegamble/licensevault/internal/interfaces/http/middleware"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("process", "server").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	isProd := cfg.IsProduction()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database connection")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to reach database")
	}
	sqlxDB := sqlx.NewDb(db, "postgres")

	redisHost, redisPortStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		logger.Fatal().Err(err).Str("redis_addr", cfg.Redis.Addr).Msg("invalid REDIS_ADDR")
	}
	redisPort, err := strconv.Atoi(redisPortStr)
	if err != nil {
		logger.Fatal().Err(err).Str("redis_addr", cfg.Redis.Addr).Msg("invalid REDIS_ADDR port")
	}

	redisClient, err := inframredis.NewClient(inframredis.Config{
		Host:     redisHost,
		Port:     redisPort,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: 10,
		MinIdle:  5,
		MaxRetry: 3,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	kv := inframredis.NewCache(redisClient)

	// Security core: JWT signer, session store, token service.
	jwtCfg := jwt.DefaultConfig()
	jwtCfg.Secret = cfg.Jwt.Key
	jwtCfg.AccessTTL = cfg.Jwt.AccessTokenTTL()
	jwtCfg.RefreshTTL = cfg.Jwt.RefreshTokenTTL()
	jwtCfg.Issuer = cfg.Jwt.Issuer
	jwtCfg.Audience = cfg.Jwt.Audience
	jwtSvc, err := jwt.NewService(jwtCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid JWT configuration")
	}
	sessionStore := jwt.NewSessionStore(kv)
	tokenService := jwt.NewTokenService(jwtSvc, sessionStore)
	verificationStore := verification.NewStore(kv)
	tokenGenerator := jwt.NewTokenGenerator()

	// Background task enqueue side: mail delivery and audit recording.
	asynqClient, err := asynqinfra.NewClient(asynqinfra.ClientConfig{
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build asynq client")
	}
	defer asynqClient.Close()
	mailDispatcher := asynqinfra.NewMailDispatcher(asynqClient)
	eventPublisher := asynqinfra.NewEventPublisher(asynqClient, logger)

	// Repositories.
	userRepo := postgres.NewUserRepository(sqlxDB)
	licenseRepo := postgres.NewLicenseRepository(sqlxDB)
	auditLog := postgres.NewAuditLog(sqlxDB)
	statsReader := postgres.NewStatsReader(sqlxDB)

	// Identity application layer.
	registerHandler := identitycommands.NewRegisterUserHandler(userRepo, eventPublisher, verificationStore, tokenGenerator, mailDispatcher, &logger)
	loginHandler := identitycommands.NewLoginHandler(userRepo, tokenService, &logger)
	refreshHandler := identitycommands.NewRefreshTokenHandler(userRepo, tokenService, &logger)
	logoutHandler := identitycommands.NewLogoutHandler(tokenService, &logger)
	changePasswordHandler := identitycommands.NewChangePasswordHandler(userRepo, tokenService, &logger)
	verifyEmailHandler := identitycommands.NewVerifyEmailHandler(userRepo, verificationStore, &logger)
	resendVerificationHandler := identitycommands.NewResendVerificationHandler(userRepo, verificationStore, tokenGenerator, mailDispatcher, &logger)
	forgotPasswordHandler := identitycommands.NewForgotPasswordHandler(userRepo, verificationStore, tokenGenerator, mailDispatcher, &logger)
	resetPasswordHandler := identitycommands.NewResetPasswordHandler(userRepo, verificationStore, tokenService, &logger)
	updateUserHandler := identitycommands.NewUpdateUserHandler(userRepo)
	deleteUserHandler := identitycommands.NewDeleteUserHandler(userRepo, tokenService)
	getUserHandler := identityqueries.NewGetUserHandler(userRepo)
	getSessionsHandler := identityqueries.NewGetUserSessionsHandler(tokenService)

	// License application layer.
	policy := applicense.DefaultPolicy()
	createLicenseHandler := licensecommands.NewCreateLicenseHandler(licenseRepo, policy, &logger)
	renewLicenseHandler := licensecommands.NewRenewLicenseHandler(licenseRepo, &logger)
	revokeLicenseHandler := licensecommands.NewRevokeLicenseHandler(licenseRepo, &logger)
	bulkRevokeHandler := licensecommands.NewBulkRevokeLicensesHandler(licenseRepo, &logger)
	activateLicenseHandler := licensecommands.NewActivateLicenseHandler(licenseRepo, &logger)
	deactivateLicenseHandler := licensecommands.NewDeactivateLicenseHandler(licenseRepo, &logger)
	validateLicenseHandler := licensecommands.NewValidateLicenseHandler(licenseRepo, &logger)
	getLicenseHandler := licensequeries.NewGetLicenseHandler(licenseRepo)
	listUserLicensesHandler := licensequeries.NewListUserLicensesHandler(licenseRepo)
	listAuditHandler := licensequeries.NewListAuditLogHandler(auditLog)
	getStatsHandler := licensequeries.NewGetStatsHandler(statsReader)

	// HTTP layer.
	metricsCollector := middleware.NewMetricsCollector()
	throttleEngine := throttle.NewEngine(kv)
	throttleCfg := middleware.ThrottleConfig{
		Engine:           throttleEngine,
		Global:           cfg.Throttling.Global,
		User:             cfg.Throttling.User,
		Auth:             cfg.Throttling.Auth,
		MetricsCollector: metricsCollector,
		Logger:           logger,
	}

	cookieCfg := handlers.CookieConfig{
		Secure:     isProd,
		RefreshTTL: cfg.Jwt.RefreshTokenTTL(),
	}

	authHandler := handlers.NewAuthHandler(
		registerHandler,
		loginHandler,
		refreshHandler,
		logoutHandler,
		changePasswordHandler,
		verifyEmailHandler,
		resendVerificationHandler,
		forgotPasswordHandler,
		resetPasswordHandler,
		getUserHandler,
		updateUserHandler,
		cookieCfg,
		logger,
	)
	userHandler := handlers.NewUserHandler(
		getUserHandler,
		updateUserHandler,
		deleteUserHandler,
		getSessionsHandler,
		changePasswordHandler,
		logger,
	)
	licenseHandler := handlers.NewLicenseHandler(
		createLicenseHandler,
		renewLicenseHandler,
		revokeLicenseHandler,
		bulkRevokeHandler,
		activateLicenseHandler,
		deactivateLicenseHandler,
		validateLicenseHandler,
		getLicenseHandler,
		listUserLicensesHandler,
		listAuditHandler,
		getStatsHandler,
		logger,
	)
	healthHandler := handlers.NewHealthHandler(sqlxDB, redisClient, logger)

	router := handlers.NewRouter(
		authHandler,
		userHandler,
		licenseHandler,
		healthHandler,
		metricsCollector,
		handlers.MiddlewareConfig{
			JWTService:     jwtSvc,
			Sessions:       tokenService,
			Throttle:       throttleCfg,
			AllowedOrigins: cfg.Cors.AllowedOrigins,
			Logger:         logger,
		},
		isProd,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
