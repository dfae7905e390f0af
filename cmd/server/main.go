package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syntax/internal/api"
	"syntax/internal/app/service"
	"syntax/internal/common/security"
	"syntax/internal/domain/repository"
	"syntax/internal/platform/config"
	"syntax/internal/platform/database"
	"syntax/internal/platform/executor"
	"syntax/internal/platform/logger"
	"syntax/internal/platform/notify"

	"go.uber.org/zap"
)

func main() {
	config.Load()

	zlog, err := logger.New(config.AppConfig.LogLevel, config.AppConfig.LogFormat)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer zlog.Sync()

	security.InitJWT()

	database.Connect(zlog)
	defer database.Close()

	publisher, err := notify.NewPublisher(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisDB,
		config.AppConfig.CompletionEventList,
		config.AppConfig.CompletionEventChannel,
		zlog,
	)
	if err != nil {
		zlog.Fatal("could not connect to redis", zap.Error(err))
	}
	defer publisher.Close()
	zlog.Info("redis connected")

	userRepo := repository.NewPgUserRepository(database.DB)
	challengeRepo := repository.NewPgChallengeRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	badgeRepo := repository.NewPgBadgeRepository(database.DB)

	pistonClient := executor.NewClient(
		config.AppConfig.ExecutorURL,
		config.AppConfig.ExecutorTimeout,
		config.AppConfig.ExecutorMaxRetries,
		zlog,
	)

	authService := service.NewAuthService(userRepo, submissionRepo)
	challengeService := service.NewChallengeService(challengeRepo)
	rewardService := service.NewRewardService(userRepo, submissionRepo, database.DB, zlog)
	badgeService := service.NewBadgeService(badgeRepo, submissionRepo, zlog)
	judgeService := service.NewJudgeService(
		challengeRepo,
		submissionRepo,
		pistonClient,
		rewardService,
		badgeService,
		publisher,
		config.AppConfig.JudgeConcurrency,
		zlog,
	)

	router := api.NewRouter(authService, challengeService, judgeService, badgeService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		zlog.Info("server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("could not listen", zap.Error(err))
		}
	}()

	<-stop

	zlog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("server shutdown failed", zap.Error(err))
	}
	zlog.Info("server stopped gracefully")
}
