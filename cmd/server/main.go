// Package main - точка входа для HTTP API приложения Tutor Scheduling Hub.
//
// Сервис управляет расписанием индивидуальных занятий в академии:
// справочники (преподаватели, ученики, предметы), ручное создание занятий
// и просмотр расписания на день.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: PostgreSQL, Redis, event bus, scheduler
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tutorhub/tutor-scheduling-hub/config"

	// Application layer
	"github.com/tutorhub/tutor-scheduling-hub/internal/application/command"
	"github.com/tutorhub/tutor-scheduling-hub/internal/application/eventhandler"
	"github.com/tutorhub/tutor-scheduling-hub/internal/application/query"

	// Domain layer
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"

	// Infrastructure layer
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/messaging"
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/persistence/postgres"
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/tutorhub/tutor-scheduling-hub/internal/interface/http"

	// Packages
	"github.com/tutorhub/tutor-scheduling-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Tutor Scheduling Hub API",
		"env", cfg.App.Environment,
		"debug", cfg.App.Debug,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnection(ctx, databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// Проверяем соединение
	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var scheduleCache *redis.ScheduleCache

	if !cfg.Redis.Disabled && cfg.Features.IsEnabled(config.FeatureScheduleCache) {
		log.Info("connecting to Redis...")
		redisCache, err := redis.NewCache(redisConfig(cfg))
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
		} else {
			defer redisCache.Close()
			scheduleCache = redis.NewScheduleCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	subjectRepo := postgres.NewSubjectRepository(dbConn)
	instructorRepo := postgres.NewInstructorRepository(dbConn)
	studentRepo := postgres.NewStudentRepository(dbConn)
	sessionRepo := postgres.NewSessionRepository(dbConn)
	txManager := postgres.NewTxManager(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.InMemoryEventBusConfig{
		AsyncMode:      cfg.EventBus.AsyncMode,
		WorkerPoolSize: cfg.EventBus.WorkerPoolSize,
		HandlerTimeout: cfg.EventBus.HandlerTimeout,
		Logger:         log,
	}
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	if scheduleCache != nil {
		log.Info("registering event handlers...")
		invalidator := eventhandler.NewOnSessionScheduledHandler(scheduleCache, log)
		if err := eventBus.Subscribe(shared.EventSessionScheduled, invalidator); err != nil {
			return fmt.Errorf("failed to subscribe cache invalidator: %w", err)
		}
		if err := eventBus.Subscribe(shared.EventDayAutoAssigned, invalidator); err != nil {
			return fmt.Errorf("failed to subscribe cache invalidator: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	createSessionCmd := command.NewCreateSessionHandler(
		instructorRepo,
		studentRepo,
		sessionRepo,
		txManager,
		eventBus,
		command.CreateSessionConfig{
			StrictValidation: cfg.Features.IsEnabled(config.FeatureStrictManualValidation),
		},
	)
	autoAssignCmd := command.NewAutoAssignHandler(instructorRepo, studentRepo, sessionRepo, txManager, eventBus)
	registerInstructorCmd := command.NewRegisterInstructorHandler(instructorRepo, subjectRepo, eventBus)
	registerStudentCmd := command.NewRegisterStudentHandler(studentRepo, subjectRepo, eventBus)
	registerSubjectCmd := command.NewRegisterSubjectHandler(subjectRepo, eventBus)

	// Cache is optional: the query handler treats a nil cache as a miss.
	var dayCache query.DayScheduleCache
	if scheduleCache != nil {
		dayCache = scheduleCache
	}
	dayScheduleQuery := query.NewGetDayScheduleHandler(sessionRepo, dayCache, log)
	listInstructorsQuery := query.NewListInstructorsHandler(instructorRepo)
	listStudentsQuery := query.NewListStudentsHandler(studentRepo)
	listSubjectsQuery := query.NewListSubjectsHandler(subjectRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.Server.Host
	httpConfig.Port = cfg.Server.Port
	httpConfig.ReadTimeout = cfg.Server.ReadTimeout
	httpConfig.WriteTimeout = cfg.Server.WriteTimeout
	httpConfig.IdleTimeout = cfg.Server.IdleTimeout
	httpConfig.EnableCORS = cfg.Server.EnableCORS
	httpConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	httpConfig.APIKeyHeader = cfg.Server.APIKeyHeader
	httpConfig.APIKeyHashes = cfg.Server.APIKeyHashes

	httpDeps := httpserver.Dependencies{
		CreateSession:      createSessionCmd,
		AutoAssign:         autoAssignCmd,
		RegisterInstructor: registerInstructorCmd,
		RegisterStudent:    registerStudentCmd,
		RegisterSubject:    registerSubjectCmd,
		GetDaySchedule:     dayScheduleQuery,
		ListInstructors:    listInstructorsQuery,
		ListStudents:       listStudentsQuery,
		ListSubjects:       listSubjectsQuery,
		Logger:             logger.Default(),
		HealthChecker:      &healthChecker{db: dbConn},
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Tutor Scheduling Hub API is running",
		"http_address", httpServer.Address(),
	)

	// Ожидаем сигнал завершения или ошибку
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	// Начинаем graceful shutdown
	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	// Event bus и база данных закроются через defer
	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	if cfg.IsProduction() || cfg.Observability.LogFormat == "json" {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// databaseConfig переводит конфигурацию приложения в postgres.Config.
func databaseConfig(cfg *config.Config) postgres.Config {
	dbCfg := postgres.DefaultConfig()
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.Database = cfg.Database.Name
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.SSLMode = cfg.Database.SSLMode
	dbCfg.MaxConns = cfg.Database.MaxConns
	dbCfg.MinConns = cfg.Database.MinConns
	dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	return dbCfg
}

// redisConfig переводит конфигурацию приложения в redis.Config.
func redisConfig(cfg *config.Config) redis.Config {
	rCfg := redis.DefaultConfig()
	rCfg.Host = cfg.Redis.Host
	rCfg.Port = cfg.Redis.Port
	rCfg.Password = cfg.Redis.Password
	rCfg.DB = cfg.Redis.DB
	rCfg.PoolSize = cfg.Redis.PoolSize
	rCfg.MinIdleConns = cfg.Redis.MinIdleConns
	rCfg.DialTimeout = cfg.Redis.DialTimeout
	rCfg.ReadTimeout = cfg.Redis.ReadTimeout
	rCfg.WriteTimeout = cfg.Redis.WriteTimeout
	return rCfg
}

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// healthChecker reports readiness based on the database connection.
type healthChecker struct {
	db *postgres.Connection
}

// Check implements httpserver.HealthChecker.
func (h *healthChecker) Check(ctx context.Context) httpserver.HealthStatus {
	if err := h.db.Ping(ctx); err != nil {
		return httpserver.HealthStatus{
			Healthy: false,
			Ready:   false,
			Message: "database unreachable",
		}
	}
	return httpserver.HealthStatus{Healthy: true, Ready: true}
}
