package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/grievance-management/api"
	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/advisory"
	"github.com/frahmantamala/grievance-management/internal/attachment"
	attachmentPostgres "github.com/frahmantamala/grievance-management/internal/attachment/postgres"
	"github.com/frahmantamala/grievance-management/internal/auth"
	"github.com/frahmantamala/grievance-management/internal/category"
	"github.com/frahmantamala/grievance-management/internal/comment"
	commentPostgres "github.com/frahmantamala/grievance-management/internal/comment/postgres"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/filestore"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	grievancePostgres "github.com/frahmantamala/grievance-management/internal/grievance/postgres"
	"github.com/frahmantamala/grievance-management/internal/notification"
	"github.com/frahmantamala/grievance-management/internal/transport"
	"github.com/frahmantamala/grievance-management/internal/transport/middleware"
	"github.com/frahmantamala/grievance-management/internal/transport/rest"
	"github.com/frahmantamala/grievance-management/internal/transport/swagger"
	"github.com/frahmantamala/grievance-management/internal/user"
	userPostgres "github.com/frahmantamala/grievance-management/internal/user/postgres"
	"github.com/frahmantamala/grievance-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Router     *chi.Mux
	EventBus   *events.EventBus
	Dispatcher *notification.Dispatcher
	Denylist   *auth.RedisDenylist
	Logger     *slog.Logger
}

func (d *Dependencies) Close() {
	if d.Dispatcher != nil {
		d.Dispatcher.Shutdown()
	}
	if d.Denylist != nil {
		if err := d.Denylist.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight event handlers enqueue their mail before the pool stops
		deps.EventBus.Wait()
		deps.Close()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := migrateUp(ctx, db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	gormDB, err := initGorm(db.DB)
	if err != nil {
		db.Close()
		return nil, err
	}

	deps := &Dependencies{
		Config:   cfg,
		DB:       db,
		Router:   chi.NewRouter(),
		EventBus: events.NewEventBus(lg),
		Logger:   lg,
	}

	store, err := filestore.New(ctx, cfg.Storage)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	var denylist auth.Denylist = auth.NoopDenylist{}
	healthComponents := map[string]rest.Pinger{"postgres": db.DB}
	if cfg.Redis.URL != "" {
		redisDenylist, err := auth.NewRedisDenylist(cfg.Redis.URL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize token denylist: %w", err)
		}
		deps.Denylist = redisDenylist
		denylist = redisDenylist
		healthComponents["redis"] = rest.PingFunc(redisDenylist.Ping)
	} else {
		lg.Warn("redis not configured; logout will not revoke tokens server-side")
	}

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), cfg.Security.BCryptCost, lg)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(userService, tokens, denylist, lg)

	grievanceRepo := grievancePostgres.NewGrievanceRepository(gormDB)
	commentService := comment.NewService(commentPostgres.NewCommentRepository(gormDB), grievanceRepo, lg)
	attachmentService := attachment.NewService(attachmentPostgres.NewAttachmentRepository(gormDB), grievanceRepo, store, lg)

	var (
		advisorClient *advisory.Client
		analyzer      advisory.Analyzer
		advisor       grievance.Advisor
	)
	if cfg.AI.Enabled {
		advisorClient = advisory.NewClient(cfg.AI, lg)
		analyzer = advisorClient
		advisor = advisorClient
	}

	grievanceService := grievance.NewService(grievance.Dependencies{
		Repo:        grievanceRepo,
		Stats:       grievancePostgres.NewStatisticsRepository(db),
		Users:       userService,
		Comments:    commentService,
		Attachments: attachmentService,
		Advisor:     advisor,
		Publisher:   deps.EventBus,
	}, lg)

	if cfg.Mail.Host != "" {
		deps.Dispatcher = notification.NewDispatcher(
			notification.NewSMTPMailer(cfg.Mail),
			notification.DispatcherConfig{MaxWorkers: cfg.Mail.Workers},
			lg,
		)
		notification.NewEventHandler(userService, deps.Dispatcher, lg).RegisterEventHandlers(deps.EventBus)
	} else {
		lg.Info("mail not configured; grievance notifications disabled")
	}

	if _, err := swagger.LoadDocument(api.Spec); err != nil {
		deps.Close()
		return nil, err
	}

	var metrics *middleware.Metrics
	if cfg.Observability.Metrics.Enabled {
		metrics = middleware.NewMetrics()
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Grievance:  grievance.NewHandler(grievanceService),
		Comment:    comment.NewHandler(commentService),
		Attachment: attachment.NewHandler(attachmentService, cfg.Storage.MaxUploadBytes),
		Advisory:   advisory.NewHandler(analyzer),
		Category:   category.NewHandler(transport.NewBaseHandler(lg), category.NewService(lg)),
		Health:     rest.NewHealthHandler(healthComponents),
	}, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPISpec:    api.Spec,
		Metrics:        metrics,
		MetricsPath:    cfg.Observability.Metrics.Path,
	}, lg)

	return deps, nil
}

// initDB opens the pooled pgx connection shared by sqlx, gorm and goose.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}
	return gormDB, nil
}
