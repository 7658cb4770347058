// Package main - точка входа для фоновых процессов (Worker) Tutor Scheduling Hub.
//
// Worker отвечает за периодические задачи:
// - Ежевечернее автоматическое составление расписания на следующий день
// - Инвалидация кеша расписаний после создания занятий
//
// Worker и API работают с одной базой; в бою обычно запускается один
// экземпляр Worker, чтобы ночной прогон был единственным.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tutorhub/tutor-scheduling-hub/config"

	// Application layer
	"github.com/tutorhub/tutor-scheduling-hub/internal/application/command"
	"github.com/tutorhub/tutor-scheduling-hub/internal/application/eventhandler"

	// Domain layer
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"

	// Infrastructure layer
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/messaging"
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/persistence/postgres"
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/persistence/redis"
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/scheduler"
	"github.com/tutorhub/tutor-scheduling-hub/internal/infrastructure/scheduler/jobs"
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
	log.Info("starting Tutor Scheduling Hub Worker",
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
	// 4. ЗАПУСК МИГРАЦИЙ (Worker также должен иметь актуальную схему)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
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
	instructorRepo := postgres.NewInstructorRepository(dbConn)
	studentRepo := postgres.NewStudentRepository(dbConn)
	sessionRepo := postgres.NewSessionRepository(dbConn)
	txManager := postgres.NewTxManager(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{
		AsyncMode:      cfg.EventBus.AsyncMode,
		WorkerPoolSize: cfg.EventBus.WorkerPoolSize,
		HandlerTimeout: cfg.EventBus.HandlerTimeout,
		Logger:         log,
	})
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	if scheduleCache != nil {
		invalidator := eventhandler.NewOnSessionScheduledHandler(scheduleCache, log)
		if err := eventBus.Subscribe(shared.EventSessionScheduled, invalidator); err != nil {
			return fmt.Errorf("failed to subscribe cache invalidator: %w", err)
		}
		if err := eventBus.Subscribe(shared.EventDayAutoAssigned, invalidator); err != nil {
			return fmt.Errorf("failed to subscribe cache invalidator: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ SCHEDULER И ЗАДАЧ
	// ─────────────────────────────────────────────────────────────────────────
	if !cfg.Scheduler.Enabled || !cfg.Features.IsEnabled(config.FeatureAutoAssignJob) {
		log.Info("scheduler disabled, worker will stay idle")
		return waitForShutdown(log)
	}

	log.Info("initializing scheduler...")
	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	autoAssignCmd := command.NewAutoAssignHandler(instructorRepo, studentRepo, sessionRepo, txManager, eventBus)

	jobConfig := jobs.DefaultAutoAssignDayConfig()
	jobConfig.DayOffset = cfg.Scheduler.AutoAssignDayOffset
	jobConfig.Timeout = cfg.Scheduler.JobTimeout
	autoAssignJob := jobs.NewAutoAssignDayJob(autoAssignCmd, log, jobConfig)

	dailyAt := scheduler.NewDailySchedule(
		cfg.Scheduler.AutoAssignHour,
		cfg.Scheduler.AutoAssignMinute,
		cfg.App.Location,
	)
	if err := sched.Register(autoAssignJob, dailyAt); err != nil {
		return fmt.Errorf("failed to register auto-assign job: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Info("scheduler started",
		"job", autoAssignJob.Name(),
		"schedule", dailyAt.String(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	if err := waitForShutdown(log); err != nil {
		return err
	}

	log.Info("stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler gracefully", "error", err)
	}

	// Event bus и база данных закроются через defer
	log.Info("shutdown completed successfully")
	return nil
}

// waitForShutdown блокируется до получения сигнала завершения.
func waitForShutdown(log *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())
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
