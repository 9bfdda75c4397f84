// Package app wires configuration, storage, transports and handlers into one
// container.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/voxplan/voxplan/internal/ordering"
	"github.com/voxplan/voxplan/internal/ordering/transport"
	"github.com/voxplan/voxplan/internal/prioritization/application/commands"
	"github.com/voxplan/voxplan/internal/prioritization/application/queries"
	"github.com/voxplan/voxplan/internal/prioritization/application/services"
	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
	"github.com/voxplan/voxplan/internal/prioritization/infrastructure/persistence"
	"github.com/voxplan/voxplan/internal/shared/infrastructure/eventbus"
	"github.com/voxplan/voxplan/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	TaskRepo    task.Repository
	SQLiteRepo  *persistence.SQLiteTaskRepository
	OrderWriter *ordering.Writer
	Publisher   eventbus.Publisher

	SuggestNextHandler  *queries.SuggestNextHandler
	PlanTodayHandler    *queries.PlanTodayHandler
	ReorderTasksHandler *commands.ReorderTasksHandler

	db          *sql.DB
	pool        *pgxpool.Pool
	redisClient *redis.Client
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid VOXPLAN_USER_ID: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		UserID: userID,
	}

	if err := c.initStorage(ctx, cfg); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	c.initPublisher(cfg)
	c.initWriter(cfg)
	c.initHandlers()

	return c, nil
}

// initStorage opens Postgres when a database URL is configured, otherwise the
// local SQLite file.
func (c *Container) initStorage(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping postgres: %w", err)
		}
		c.pool = pool
		c.TaskRepo = persistence.NewPostgresTaskRepository(pool)
		c.Logger.Info("using postgres task store")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := persistence.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return err
	}
	c.db = db
	repo := persistence.NewSQLiteTaskRepository(db)
	c.TaskRepo = repo
	c.SQLiteRepo = repo
	c.Logger.Info("using sqlite task store", "path", cfg.SQLitePath)
	return nil
}

func (c *Container) initRedis(ctx context.Context, cfg *config.Config) error {
	if cfg.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid VOXPLAN_REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	c.redisClient = client
	return nil
}

func (c *Container) initPublisher(cfg *config.Config) {
	if !cfg.EventsEnabled {
		c.Publisher = eventbus.NoopPublisher{}
		return
	}
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		if err != nil {
			c.Logger.Warn("falling back to in-process events", "error", err)
		} else {
			c.Publisher = publisher
			return
		}
	}
	c.Publisher = eventbus.NewInProcessBus(c.Logger)
}

// initWriter picks the persistence transport: the remote task API when
// configured, then Redis, then the local repository.
func (c *Container) initWriter(cfg *config.Config) {
	var save ordering.SaveFunc
	switch {
	case cfg.APIBaseURL != "":
		save = transport.NewHTTPTransport(transport.DefaultHTTPConfig(cfg.APIBaseURL), c.Logger).Save
	case c.redisClient != nil:
		save = transport.NewRedisTransport(c.redisClient, c.Logger).Save
	default:
		save = transport.NewRepositoryTransport(c.TaskRepo, c.UserID).Save
	}

	sink := func(contextKey string, err error) {
		c.Logger.Error("reorder persistence failed",
			"context", contextKey,
			"error", err,
		)
	}

	c.OrderWriter = ordering.NewWriter(save, sink, ordering.WriterConfig{
		DebounceWindow:   cfg.OrderDebounceWindow,
		MaxRetries:       cfg.OrderMaxRetries,
		RetryBackoffBase: cfg.OrderRetryBackoffBase,
		RetryBackoffMax:  cfg.OrderRetryBackoffMax,
	}, c.Logger)
}

func (c *Container) initHandlers() {
	engine := services.NewScoringEngine(services.DefaultScoringConfig())
	c.SuggestNextHandler = queries.NewSuggestNextHandler(c.TaskRepo, engine)
	c.PlanTodayHandler = queries.NewPlanTodayHandler(c.TaskRepo, engine)
	c.ReorderTasksHandler = commands.NewReorderTasksHandler(c.TaskRepo, c.OrderWriter, c.Publisher, c.Logger)
}

// Close releases all resources. Pending debounced orders are flushed by the
// writer's Close semantics (in-flight saves settle, unsent orders drop).
func (c *Container) Close() {
	if c.OrderWriter != nil {
		c.OrderWriter.Close()
	}
	if c.Publisher != nil {
		_ = c.Publisher.Close()
	}
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
}
