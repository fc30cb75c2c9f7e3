// Command worker runs the background-processing side of licensevault: the
// Asynq task server (mail delivery) and the Asynq scheduler (the C9 license
// expiration sweep). It shares the Postgres and Redis connections with the
// HTTP server but runs as its own process so task processing scales and
// restarts independently of request handling.
package main

import (
	"database/sql"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	licensecommands "github.com/yegamble/licensevault/internal/application/license/commands"
	"github.com/yegamble/licensevault/internal/config"
	"github.com/yegamble/licensevault/internal/infrastructure/email"
	asynqinfra "github.com/yegamble/licensevault/internal/infrastructure/jobs/asynq"
	"github.com/yegamble/licensevault/internal/infrastructure/persistence/postgres"
	inframredis "github.com/yegamble/licensevault/internal/infrastructure/persistence/redis"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("process", "worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database connection")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to reach database")
	}
	sqlxDB := sqlx.NewDb(db, "postgres")

	licenseRepo := postgres.NewLicenseRepository(sqlxDB)
	sweepHandler := licensecommands.NewExpireDueLicensesHandler(licenseRepo, &logger)

	redisAddr := cfg.Redis.Addr
	redisHost, redisPortStr, err := net.SplitHostPort(redisAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("redis_addr", redisAddr).Msg("invalid REDIS_ADDR")
	}
	redisPort, err := strconv.Atoi(redisPortStr)
	if err != nil {
		logger.Fatal().Err(err).Str("redis_addr", redisAddr).Msg("invalid REDIS_ADDR port")
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

	mailCfg := email.Config{
		SmtpHost:        cfg.Email.SmtpHost,
		Port:            cfg.Email.Port,
		User:            cfg.Email.User,
		Pass:            cfg.Email.Pass,
		EnableSsl:       cfg.Email.EnableSsl,
		FromEmail:       cfg.Email.FromEmail,
		FromName:        cfg.Email.FromName,
		FrontendBaseUrl: cfg.Email.FrontendBaseUrl,
	}
	mailSender := email.NewSmtpSender(mailCfg)

	asynqClientCfg := asynqinfra.ClientConfig{
		RedisAddr:     redisAddr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Logger:        logger,
	}

	serverCfg := asynqinfra.DefaultServerConfig(redisAddr, logger)
	serverCfg.RedisPassword = cfg.Redis.Password
	serverCfg.RedisDB = cfg.Redis.DB
	serverCfg.Concurrency = cfg.Worker.Concurrency

	server, err := asynqinfra.NewServer(serverCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build asynq server")
	}
	server.RegisterHandler(
		"license:expire_sweep",
		asynqinfra.NewLicenseExpireSweepHandler(sweepHandler, logger),
	)
	server.RegisterHandler(
		"mail:deliver",
		asynqinfra.NewMailDeliverHandler(mailSender, mailCfg, logger),
	)
	server.RegisterHandler(
		"audit:record",
		asynqinfra.NewAuditRecordHandler(postgres.NewAuditLog(sqlxDB), logger),
	)

	scheduler := asynqinfra.NewScheduler(asynqClientCfg)
	if err := scheduler.RegisterLicenseExpireSweep(cfg.Worker.LicenseExpirationCron); err != nil {
		logger.Fatal().Err(err).Msg("failed to register license expiration sweep")
	}

	errCh := make(chan error, 2)
	go func() { errCh <- server.Start() }()
	go func() { errCh <- scheduler.Run() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down worker")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("worker component stopped unexpectedly")
		}
	}

	scheduler.Shutdown()
	server.Shutdown()
}
