package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"eventsphere/cmd/buildCFG"
	"eventsphere/internal/api/api"
	"eventsphere/internal/auth"
	rabbitReader "eventsphere/internal/consumerWorker"
	"eventsphere/internal/mailer"
	"eventsphere/internal/rabbit"
	"eventsphere/internal/repo"
	"eventsphere/internal/service"
	"eventsphere/internal/session"
	"eventsphere/internal/storage"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	_ = godotenv.Load()

	zlog.Init()
	log := zlog.Logger
	log.Info().Msg("Starting eventsphere")

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	port := serverCfg.Port

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	if err := db.Master.Ping(); err != nil {
		log.Fatal().Msgf("DB ping failed: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot get working directory")
	}
	migrationPath := filepath.Join(cwd, "migrations/postgres")
	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")

	redisCfg := buildCFG.BuildRedisConfig(cfg, &log)
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Msgf("Redis ping failed: %v", err)
	}
	log.Info().Msg("Redis connected successfully")

	authCfg, err := buildCFG.BuildAuthConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build auth config")
	}
	authService := auth.NewService(repository, session.NewStore(rdb), authCfg, &log)

	var s3Client *storage.S3Client
	if s3Cfg := buildCFG.BuildS3Config(cfg, &log); s3Cfg != nil {
		s3Client, err = storage.NewS3Client(context.Background(), *s3Cfg, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 client")
		}
		log.Info().Msg("Object storage connected successfully")
	}

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	mail := mailer.New(buildCFG.BuildSMTPConfig(cfg, &log), &log)
	rabbitReaderer := rabbitReader.NewReader(rmq, mail)
	rabbitReaderer.Start(workerCtx)

	serviceInstance := service.NewService(repository, &log, rmq, authService, s3Client)
	app := api.NewRouters(&api.Routers{Service: serviceInstance, Auth: authService})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", port)
		if err := app.Run(":" + port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	rabbitReaderer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if closer, ok := interface{}(app).(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(shutdownCtx); err != nil {
			log.Error().Msgf("Error shutting down server: %v", err)
		}
	}

	if err := rdb.Close(); err != nil {
		log.Warn().Msgf("Error closing redis client: %v", err)
	}
	log.Info().Msg("Shutdown complete")
}
