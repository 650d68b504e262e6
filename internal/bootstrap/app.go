package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"quillpost/internal/config"
	"quillpost/internal/pkg/logger"
	"quillpost/internal/platform/database"
	rabbitmqClient "quillpost/internal/platform/rabbitmq"
	redisClient "quillpost/internal/platform/redis"
	"quillpost/internal/repository"
	"quillpost/internal/worker"
)

// App holds the process-wide resources. Redis, MQConn and AuditWorker are nil
// when their section is left empty in config.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	DB          *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	AuditWorker *worker.AuditWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log := logger.New(os.Stdout, cfg.Log.Level, cfg.App.Name, cfg.App.Env)
	slog.SetDefault(log)

	app := &App{
		Config:    cfg,
		Logger:    log,
		StartedAt: time.Now(),
	}

	app.DB, err = database.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(app.DB); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Redis, err = redisClient.New(ctx, cfg.Redis)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if app.Redis == nil {
		log.Warn("redis disabled: logout and auth rate limiting are off")
	}

	if cfg.RabbitMQ.URL == "" {
		log.Warn("rabbitmq disabled: post events are not audited")
		return app, nil
	}

	app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	auditRepo := repository.NewAuditLogRepository(app.DB)
	app.AuditWorker = worker.NewAuditWorker(app.MQConn, auditRepo, cfg.RabbitMQ.PostEventsQueue, log)
	if err := app.AuditWorker.Start(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("start audit worker failed: %w", err)
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
