package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/performance-tracker/api"
	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/performance-tracker/internal/auth/postgres"
	"github.com/frahmantamala/performance-tracker/internal/core/events"
	"github.com/frahmantamala/performance-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/performance-tracker/internal/department/postgres"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	employeePostgres "github.com/frahmantamala/performance-tracker/internal/employee/postgres"
	"github.com/frahmantamala/performance-tracker/internal/feedback"
	feedbackPostgres "github.com/frahmantamala/performance-tracker/internal/feedback/postgres"
	"github.com/frahmantamala/performance-tracker/internal/prediction"
	"github.com/frahmantamala/performance-tracker/internal/transport"
	"github.com/frahmantamala/performance-tracker/internal/transport/rest"
	"github.com/frahmantamala/performance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/performance-tracker/internal/user/postgres"
	"github.com/frahmantamala/performance-tracker/pkg/logger"

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
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Bus    *events.EventBus
	Pool   *prediction.Pool
	Model  *prediction.ModelClient
	Logger *slog.Logger

	AuthService       *auth.Service
	EmployeeService   *employee.Service
	FeedbackService   *feedback.Service
	PredictionService *prediction.Service
	DepartmentService *department.Service
	UserService       *user.Service
}

func startHTTPServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	ctx := context.Background()
	if _, err := api.Load(ctx); err != nil {
		return err
	}
	if added, err := deps.DepartmentService.EnsureCatalog(ctx); err != nil {
		deps.Logger.Warn("could not sync department catalog", "error", err)
	} else if added > 0 {
		deps.Logger.Info("department catalog synced", "added", added)
	}

	router := chi.NewRouter()
	setupRoutes(router, deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
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
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(router *chi.Mux, deps *Dependencies) {
	lg := deps.Logger
	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:       auth.NewHandler(deps.AuthService),
		User:       user.NewHandler(deps.UserService),
		Employee:   employee.NewHandler(deps.EmployeeService),
		Prediction: prediction.NewHandler(deps.PredictionService),
		Feedback:   feedback.NewHandler(deps.FeedbackService),
		Department: department.NewHandler(transport.NewBaseHandler(lg), deps.DepartmentService),
		Health: rest.NewHealthHandler(map[string]rest.Pinger{
			"postgres":         deps.DB,
			"prediction_model": deps.Model,
		}),
		OpenAPISpec: api.Spec,
	}, rest.RouterOptions{AllowedOrigins: deps.Config.Server.AllowedOrigins}, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	lg := logger.LoggerWrapper()
	deps := &Dependencies{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Bus:    events.NewEventBus(lg),
		Logger: lg,
	}
	deps.wireServices()
	return deps, nil
}

// wireServices builds every service over the shared gorm handle. The auth
// service subscribes to employee lifecycle events before anything can publish.
func (d *Dependencies) wireServices() {
	cfg := d.Config

	employeeRepo := employeePostgres.NewEmployeeRepository(d.Gorm)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)

	d.AuthService = auth.NewService(authPostgres.NewRepository(d.Gorm), tokens, auth.Options{
		BCryptCost:      cfg.Security.BCryptCost,
		DefaultPassword: cfg.Security.DefaultEmployeePassword,
	}, d.Logger)
	d.AuthService.Subscribe(d.Bus)

	d.UserService = user.NewService(userPostgres.NewRepository(d.Gorm))
	d.EmployeeService = employee.NewService(employeeRepo, d.Bus, d.Logger)
	d.FeedbackService = feedback.NewService(feedbackPostgres.NewFeedbackRepository(d.Gorm), employeeRepo, d.Logger)
	d.DepartmentService = department.NewService(departmentPostgres.NewDepartmentRepository(d.Gorm), d.Logger)

	d.Model = prediction.NewModelClient(prediction.ModelConfig{
		ServiceURL: cfg.Prediction.ServiceURL,
		APIKey:     cfg.Prediction.APIKey,
		Timeout:    cfg.Prediction.Timeout,
	}, d.Logger)
	d.Pool = prediction.NewPool(prediction.PoolConfig{
		MaxWorkers:     cfg.Prediction.MaxWorkers,
		JobQueueSize:   cfg.Prediction.JobQueueSize,
		WorkerPoolSize: cfg.Prediction.WorkerPoolSize,
	}, d.Logger)
	d.PredictionService = prediction.NewService(employeeRepo, d.Model, d.Pool, d.Logger)
}

// Close stops the worker pool, drains async events and closes the database.
func (d *Dependencies) Close() {
	if d.Pool != nil {
		d.Pool.Shutdown()
	}
	if d.Bus != nil {
		d.Bus.Wait()
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
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

// initGorm shares the sqlx pool with gorm so both see the same connection limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gormDB, nil
}
