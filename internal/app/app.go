package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/islandlabs/dreamtrack/internal/config"
	"github.com/islandlabs/dreamtrack/internal/db"
	"github.com/islandlabs/dreamtrack/internal/repository"
	"github.com/islandlabs/dreamtrack/internal/service"
)

// App holds all application dependencies
type App struct {
	Cfg *config.Config
	DB  *sqlx.DB

	AuthService     *service.AuthService
	UserService     *service.UserService
	DreamService    *service.DreamService
	TaxonomyService *service.TaxonomyService
}

// New creates the application with all dependencies wired up
func New(cfg *config.Config) (*App, error) {
	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.DBMigrate {
		err = db.RunMigrations(conn.DB, cfg.DBDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	} else {
		slog.Info("migrations disabled, using database schema as found")
	}

	// Probe the schema once; repositories adapt their SQL to whatever
	// columns and tables this database actually has.
	caps, err := repository.Detect(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to detect schema capabilities: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(conn, caps)
	dreamRepo := repository.NewDreamRepository(conn, caps)
	stepRepo := repository.NewStepRepository(conn, caps)
	fulfillmentRepo := repository.NewFulfillmentRepository(conn, caps)
	taxonomyRepo := repository.NewTaxonomyRepository(conn, caps)

	// Services
	permService := service.NewPermissionService(userRepo)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	dreamService := service.NewDreamService(
		dreamRepo,
		stepRepo,
		fulfillmentRepo,
		userRepo,
		taxonomyService,
		permService,
	)

	return &App{
		Cfg: cfg,
		DB:  conn,

		AuthService:     authService,
		UserService:     userService,
		DreamService:    dreamService,
		TaxonomyService: taxonomyService,
	}, nil
}

// Close gracefully shuts down all application resources
func (a *App) Close() error {
	return db.Close(a.DB)
}
