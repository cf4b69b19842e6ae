package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/config"
	"github.com/mamadbah2/vinstock/internal/events"
	"github.com/mamadbah2/vinstock/internal/repository"
	"github.com/mamadbah2/vinstock/internal/repository/dynamodb"
	"github.com/mamadbah2/vinstock/internal/repository/file"
	"github.com/mamadbah2/vinstock/internal/repository/memory"
	"github.com/mamadbah2/vinstock/internal/repository/mongodb"
	"github.com/mamadbah2/vinstock/internal/repository/redis"
	"github.com/mamadbah2/vinstock/internal/repository/sheets"
	"github.com/mamadbah2/vinstock/internal/scheduler"
	"github.com/mamadbah2/vinstock/internal/server/handlers"
	"github.com/mamadbah2/vinstock/internal/server/router"
	alertsvc "github.com/mamadbah2/vinstock/internal/service/alerts"
	analyticssvc "github.com/mamadbah2/vinstock/internal/service/analytics"
	reportingsvc "github.com/mamadbah2/vinstock/internal/service/reporting"
	"github.com/mamadbah2/vinstock/internal/service/state"
	stocksvc "github.com/mamadbah2/vinstock/internal/service/stock"
	whatsappsvc "github.com/mamadbah2/vinstock/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/vinstock/pkg/clients/whatsapp"
	"github.com/mamadbah2/vinstock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	var mongoRepo *mongodb.MongoDBRepository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err = mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
	}

	slots, closeSlots, err := openSlotStore(startupCtx, cfg, mongoRepo)
	if err != nil {
		baseLogger.Fatal("failed to init slot store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeSlots()
	baseLogger.Info("slot store ready", zap.String("driver", cfg.Store.Driver))

	store := state.NewStore(slots, cfg.Store.KeyPrefix, logger.Named(baseLogger, "state"))
	if err := store.Load(startupCtx); err != nil {
		baseLogger.Fatal("failed to load state", zap.Error(err))
	}

	stockEngine := stocksvc.NewEngine(store, logger.Named(baseLogger, "svc.stock"))

	if cfg.Kafka.Enabled() {
		producer := events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger.Named(baseLogger, "events.kafka"))
		defer func() {
			if err := producer.Close(); err != nil {
				baseLogger.Error("failed to close kafka producer", zap.Error(err))
			}
		}()
		stockEngine.AddHook(producer)
		baseLogger.Info("stock movement events enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	var ledgerMirror *sheets.LedgerMirror
	if cfg.Sheets.Enabled() {
		ledgerSheet, err := sheets.NewGoogleLedgerSheet(startupCtx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init ledger sheet", zap.Error(err))
		}
		if err := ledgerSheet.EnsureHeader(startupCtx); err != nil {
			baseLogger.Fatal("failed to prepare ledger sheet", zap.Error(err))
		}
		ledgerMirror = sheets.NewLedgerMirror(ledgerSheet, loc, logger.Named(baseLogger, "sheets.ledger"))
		stockEngine.AddHook(ledgerMirror)
		baseLogger.Info("ledger mirror enabled", zap.String("range", cfg.Sheets.LedgerRange))
	}

	alertService := alertsvc.NewService(store, logger.Named(baseLogger, "svc.alerts"))
	analyticsService := analyticssvc.NewService(store, loc, logger.Named(baseLogger, "svc.analytics"))

	var archive reportingsvc.DigestArchive
	if mongoRepo != nil {
		archive = mongoRepo
	}
	reportingService := reportingsvc.NewService(store, archive, loc, logger.Named(baseLogger, "svc.reporting"))
	if ledgerMirror != nil {
		reportingService.SetLedgerMirror(ledgerMirror)
	}

	var notifier alertsvc.Notifier
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, logger.Named(baseLogger, "svc.whatsapp"))

		watcher := alertsvc.NewWatcher(notifier, logger.Named(baseLogger, "alerts.watcher"))
		detach := watcher.Attach(store)
		defer detach()
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, notifications disabled")
	}

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingService, reportingsvc.FormatDigest, notifier, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	handler := handlers.NewHandler(stockEngine, alertService, analyticsService, reportingService, logger.Named(baseLogger, "handlers"))
	engine, err := router.New(handler, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins(),
		RateLimit:      cfg.Server.RateLimit,
	}, logger.Named(baseLogger, "router"))
	if err != nil {
		baseLogger.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openSlotStore(ctx context.Context, cfg *config.Config, mongoRepo *mongodb.MongoDBRepository) (repository.SlotStore, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.NewStore(), noop, nil
	case config.DriverFile:
		store, err := file.NewStore(cfg.Store.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.DriverMongoDB:
		if mongoRepo == nil {
			return nil, noop, errors.New("mongodb driver selected without MONGODB_URI")
		}
		return mongoRepo, noop, nil
	case config.DriverRedis:
		store, err := redis.NewStore(ctx, redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.DriverDynamoDB:
		client, err := dynamodb.NewClient(ctx, cfg.DynamoDB.Region)
		if err != nil {
			return nil, noop, err
		}
		return dynamodb.NewStore(client, cfg.DynamoDB.Table), noop, nil
	default:
		return nil, noop, errors.New("unsupported store driver " + cfg.Store.Driver)
	}
}
