package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"place-trainer/internal/config"
	"place-trainer/internal/db"
	apihttp "place-trainer/internal/http"
	"place-trainer/internal/notify"
	"place-trainer/internal/repository"
	"place-trainer/internal/scheduler"
	"place-trainer/internal/service"
	"place-trainer/internal/trainer"
	"place-trainer/internal/trigger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(ctxPing, pool); err != nil {
		cancelPing()
		logger.Fatal("db ping", zap.Error(err))
	}
	cancelPing()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := client.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			_ = client.Close()
		} else {
			redisClient = client
			defer redisClient.Close()
		}
		cancel()
	}

	placeRepo := repository.NewPgPlaceRepository(pool)
	modelRepo := repository.NewPgModelRepository(pool)
	appConfigRepo := repository.NewPgAppConfigRepository(pool)
	sampleRepo := repository.NewPgSampleRepository(pool)

	var publisher notify.Publisher
	if redisClient != nil {
		publisher = notify.NewRedisPublisher(redisClient, cfg.ReloadChannel)
	}
	notifier := notify.NewReloadNotifier(logger, appConfigRepo, publisher)
	stubTrainer := trainer.NewStubTrainer(logger, sampleRepo, cfg.TrainingDelay)

	retrainSvc := service.NewRetrainService(logger, placeRepo, modelRepo, stubTrainer, notifier, cfg.RetrainThreshold)
	if cfg.RetrainLeaseEnabled {
		if redisClient == nil {
			logger.Warn("retrain lease enabled but redis unavailable; running without lease")
		} else {
			retrainSvc = retrainSvc.WithLease(service.NewRedisRetrainLease(redisClient, cfg.RetrainLeaseTTL))
		}
	}
	statsSvc := service.NewStatsService(logger, placeRepo, modelRepo, cfg.StatsRetrainThreshold)
	verificationSvc := service.NewVerificationService(logger, placeRepo, cfg.AutoVerifyLimit)
	modelSvc := service.NewModelService(logger, modelRepo, cfg.ModelDownloadURL, cfg.ModelSizeBytes)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, time.Hour)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured; verifyPlace will reject every caller")
	}

	listener := trigger.NewListener(logger, pool, retrainSvc)
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("place listener stopped", zap.Error(err))
		}
	}()

	sched, err := scheduler.New(logger, cfg.AutoVerifyTimezone, 10*time.Minute)
	if err != nil {
		logger.Fatal("scheduler init", zap.Error(err))
	}
	if err := sched.Add("auto-verify", cfg.AutoVerifyCron, verificationSvc.RunScheduledVerification); err != nil {
		logger.Fatal("scheduler add", zap.Error(err))
	}
	sched.Start()
	logger.Info("auto-verify scheduled", zap.Times("next_run", sched.Next()))

	callableHandler := apihttp.NewCallableHandler(logger, retrainSvc, statsSvc, verificationSvc, modelSvc)
	placeHandler := apihttp.NewPlaceHandler(logger, placeRepo)
	dbHealth := func(ctx context.Context) error { return db.Ping(ctx, pool) }
	router := apihttp.NewRouter(logger, jwtSvc, dbHealth, callableHandler, placeHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	sched.Stop(shutdownCtx)
	select {
	case <-listenerDone:
	case <-shutdownCtx.Done():
		logger.Warn("place listener did not stop in time")
	}
}
