package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/kasuganosora/campaign-table/api/rest"
	"github.com/kasuganosora/campaign-table/api/sse"
	apiws "github.com/kasuganosora/campaign-table/api/ws"
	"github.com/kasuganosora/campaign-table/audit"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/combat"
	"github.com/kasuganosora/campaign-table/config"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"github.com/kasuganosora/campaign-table/plugin/hook"
	"github.com/kasuganosora/campaign-table/scheduler"
	"github.com/kasuganosora/campaign-table/seed"
	"github.com/kasuganosora/campaign-table/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP, SSE and WebSocket server",
	RunE:  runServe,
}

// app holds everything the routes are built from.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	cache   cache.Cache
	pubsub  cache.PubSub
	audit   *audit.Service
	store   *store.Store
	table   *combat.Table
	spawner *combat.Spawner
	sched   *scheduler.Scheduler
	hub     *apiws.Hub
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}
	if cfg.Security.JWTSecret == "" {
		return errors.New("security.jwt_secret must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Database ----
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))
	if cfg.Seed.AdminPassword != "" {
		created, err := seed.EnsureAdmin(ctx, db, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			logger.Info("bootstrap game master account created", zap.String("email", cfg.Seed.AdminEmail))
		}
	}

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache / PubSub ----
	c, err := cache.NewCache(cacheConfig(cfg))
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	pubsub, err := cache.NewPubSub(cacheConfig(cfg))
	if err != nil {
		return fmt.Errorf("pubsub: %w", err)
	}
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	a, err := newApp(cfg, logger, db, c, pubsub, auditSvc)
	if err != nil {
		return err
	}
	defer a.sched.Stop()

	stopHub, err := a.hub.Listen(ctx, pubsub)
	if err != nil {
		return fmt.Errorf("ws hub: %w", err)
	}
	defer stopHub()

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           a.router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
	return nil
}

// newApp wires the combat engine: hooks, store, table, spawner and the
// pending-write replay task.
func newApp(cfg *config.Config, logger *zap.Logger, db *gorm.DB, c cache.Cache, ps cache.PubSub, auditSvc *audit.Service) (*app, error) {
	hooks := hook.NewHookCenter()
	hooks.RegisterAll(hook.TableEvents, 0, "publish", combat.PublishHook(ps, logger))
	hooks.RegisterAll(hook.TableEvents, 10, "audit", auditSvc.Hook())

	st := store.NewGorm(db)
	table, err := combat.NewTable(combat.TableConfig{
		Characters:   st.Characters,
		Monsters:     st.Monsters,
		Npcs:         st.Npcs,
		Pending:      combat.NewPendingQueue(c, cfg.Combat.PendingMaxAttempts, logger),
		Hooks:        hooks,
		Logger:       logger,
		StoreTimeout: cfg.Combat.StoreTimeout,
	})
	if err != nil {
		return nil, err
	}
	spawner, err := combat.NewSpawner(combat.SpawnerConfig{
		Monsters:    st.Monsters,
		Table:       table,
		Cache:       c,
		Hooks:       hooks,
		Logger:      logger,
		MaxQuantity: cfg.Combat.MaxSpawnQuantity,
		LockTTL:     cfg.Combat.SpawnLockTTL,
	})
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(logger)
	if cfg.Combat.PendingRetryInterval > 0 {
		sched.AddTicker("pending_flush", cfg.Combat.PendingRetryInterval, func(ctx context.Context) {
			res, err := table.FlushPending(ctx)
			if err != nil {
				logger.Warn("pending flush failed", zap.Error(err))
				return
			}
			if res.Flushed+res.Dropped > 0 {
				logger.Info("pending writes replayed",
					zap.Int("flushed", res.Flushed), zap.Int("dropped", res.Dropped), zap.Int("remaining", res.Remaining))
			}
		})
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		cache:   c,
		pubsub:  ps,
		audit:   auditSvc,
		store:   st,
		table:   table,
		spawner: spawner,
		sched:   sched,
		hub:     apiws.NewHub(logger),
	}, nil
}

// router builds the Gin engine. ctx bounds background goroutines of the
// middlewares.
func (a *app) router(ctx context.Context) *gin.Engine {
	cfg, logger, c := a.cfg, a.logger, a.cache

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(ctx, rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protect := mw.Auth(cfg.Security, c)
	api := r.Group("/api")
	{
		authH := apirest.NewAuthHandler(a.db, c, cfg.Security, a.audit, logger)
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", protect, authH.Logout)
		authG.POST("/refresh", protect, authH.Refresh)

		apirest.NewCharacterHandler(a.store.Characters, a.table, a.audit).Mount(api.Group("/characters"), protect)
		apirest.NewMonsterHandler(a.store.Monsters, a.spawner, a.table, a.audit).Mount(api.Group("/monsters"), protect)
		apirest.NewNpcHandler(a.store.Npcs, a.table, a.audit).Mount(api.Group("/npcs"), protect)

		optH := apirest.NewOptionsHandler(a.store.Options)
		api.GET("/options/races", optH.Races)
		api.GET("/options/classes", optH.Classes)

		apirest.NewTableHandler(a.table).Mount(api.Group("/table"), protect)

		adminH := apirest.NewAdminHandler(a.db, a.table, a.sched, logger)
		adminG := api.Group("/admin")
		adminG.Use(mw.IPWhitelist(cfg.Server.AdminIPs), apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.POST("/pending/flush", adminH.FlushPending)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
	}

	// ---- WebSocket ----
	wsRouter := apiws.NewRouter(logger)
	apiws.RegisterTableCommands(wsRouter, a.table)
	r.GET("/ws", apiws.NewHandler(c, cfg.Security, a.hub, wsRouter, logger).ServeWS)

	// ---- SSE ----
	r.GET("/sse", sse.NewHandler(a.pubsub, c, cfg.Security, logger).ServeSSE)

	return r
}
