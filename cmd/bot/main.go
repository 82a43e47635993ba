package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ponto-bot/internal/config"
	"ponto-bot/internal/handler"
	"ponto-bot/internal/metrics"
	"ponto-bot/internal/pipeline"
	"ponto-bot/internal/repository"
	"ponto-bot/internal/service"
	"ponto-bot/pkg/telegram"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("Initializing config...")
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}
	logger := cfg.NewLogger()
	logger.WithField("timezone", cfg.Location.String()).Info("Config initialized")

	// Инициализируем SQLite базу данных и репозитории
	db, err := repository.OpenSQLite(cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	store, err := repository.NewStore(db, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create repositories")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Фиды пересчета баланса: по одному на сотрудника с открытой панелью
	balanceService := service.NewBalanceService(store.Events, store.Users, logger)
	hub := pipeline.NewHub(ctx, balanceService, pipeline.Options{
		Tick:     cfg.TickInterval,
		Location: cfg.Location,
		Recorder: collector,
		Logger:   logger,
	})

	clockService := service.NewClockService(store.Events, hub, collector, logger)
	adjustmentService := service.NewAdjustmentService(store.Events, store.Users, hub, logger)
	userService := service.NewUserService(store.Users, store.Events, store.Requests, logger)
	requestService := service.NewRequestService(store.Requests, adjustmentService, logger)

	// Инициализируем администратора из конфига
	if err := userService.InitializeAdmin(cfg.BaseAdminChatID); err != nil {
		logger.Warnf("Failed to initialize admin: %v", err)
	} else if cfg.BaseAdminChatID != 0 {
		logger.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
	}

	// Создаем клиент Telegram
	client, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Telegram client")
	}
	logger.Infof("Authorized on account %s", client.Bot.Self.UserName)

	broadcastService := service.NewBroadcastService(store.Users, store.Broadcasts, client, logger)

	botHandler := handler.NewHandler(
		client,
		userService,
		clockService,
		adjustmentService,
		balanceService,
		requestService,
		broadcastService,
		hub,
		cfg,
		logger,
	)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.SetupMetricsRoute(registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Infof("Metrics listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Настраиваем канал обновлений
	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	handlerDone := make(chan struct{})
	go func() {
		defer close(handlerDone)
		botHandler.HandleUpdates(ctx, updates)
	}()

	logger.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	logger.Info("Shutting down...")
	client.Bot.StopReceivingUpdates()
	cancel()

	<-handlerDone
	botHandler.Wait()
	hub.Wait()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Error stopping metrics server")
		}
		shutdownCancel()
	}

	// Закрываем соединение с БД
	if err := store.Close(); err != nil {
		logger.WithError(err).Warn("Error closing database")
	}

	logger.Info("Bot stopped gracefully")
}
