// Package bootstrap wires configuration, storage and feature services
// into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/comments"
	"docshare-backend/internal/dashboard"
	"docshare-backend/internal/documents"
	"docshare-backend/internal/history"
	"docshare-backend/internal/inspect"
	"docshare-backend/internal/shared/config"
	"docshare-backend/internal/shared/server"
	"docshare-backend/internal/shared/storage/db"
	"docshare-backend/internal/shared/storage/object"
	"docshare-backend/internal/shared/storage/object/local"
	"docshare-backend/internal/shared/storage/object/s3"
	"docshare-backend/internal/shared/telemetry"
	"docshare-backend/internal/shares"
	"docshare-backend/internal/users"
)

// App is the assembled application. Repositories are exposed so tests
// can seed state directly.
type App struct {
	Cfg    config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo     users.UsersRepo
	DocumentsRepo documents.DocumentsRepo
	SharesRepo    shares.SharesRepo
	CommentsRepo  comments.CommentsRepo
	HistoryRepo   history.Repo

	Users     *users.Service
	Documents *documents.Service
	Shares    *shares.Service
	Comments  *comments.Service
	History   *history.Service
	Dashboard *dashboard.Service
}

// Build assembles the application from configuration. Without a
// DATABASE_URL the app runs on in-memory repositories, which is only
// allowed outside production.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Cfg: cfg}

	var tx db.TxRunner
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, database); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		app.DB = database
		tx = db.SQLRunner{DB: database}
		app.UsersRepo = &users.PGRepo{DB: database}
		app.DocumentsRepo = &documents.PGRepo{DB: database}
		app.SharesRepo = &shares.PGRepo{DB: database}
		app.CommentsRepo = &comments.PGRepo{DB: database}
		app.HistoryRepo = &history.PGRepo{DB: database}
	} else {
		if cfg.Env == "production" {
			return nil, errors.New("DATABASE_URL is required in production")
		}
		telemetry.Warn("bootstrap.memory_mode", map[string]any{
			"detail": "DATABASE_URL is empty, using in-memory repositories",
		})
		tx = db.PassthroughRunner{}
		app.UsersRepo = users.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.SharesRepo = shares.NewMemoryRepo()
		app.CommentsRepo = comments.NewMemoryRepo()
		app.HistoryRepo = history.NewMemoryRepo()
	}

	store, localDir, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	app.Users = &users.Service{Repo: app.UsersRepo}
	app.Documents = &documents.Service{
		Docs:     app.DocumentsRepo,
		Shares:   app.SharesRepo,
		Comments: app.CommentsRepo,
		History:  app.HistoryRepo,
		Users:    app.UsersRepo,
		Store:    store,
		Pages:    inspect.Inspector{},
		Tx:       tx,
	}
	app.Shares = &shares.Service{
		Repo:    app.SharesRepo,
		Docs:    app.DocumentsRepo,
		History: app.HistoryRepo,
		Users:   app.UsersRepo,
		Tx:      tx,
	}
	app.Comments = &comments.Service{
		Repo:  app.CommentsRepo,
		Docs:  app.DocumentsRepo,
		Users: app.UsersRepo,
	}
	app.History = &history.Service{
		Repo:  app.HistoryRepo,
		Docs:  app.Documents,
		Users: app.UsersRepo,
	}
	app.Dashboard = &dashboard.Service{
		Docs:       app.Documents,
		Shares:     app.Shares,
		Comments:   app.CommentsRepo,
		Users:      app.Users,
		StaleAfter: cfg.DashboardCacheTTL,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Cfg:           cfg,
		LocalFilesDir: localDir,
		Registrars: []server.RouteRegistrar{
			users.NewHandler(app.Users),
			documents.NewHandler(app.Documents),
			shares.NewHandler(app.Shares),
			comments.NewHandler(app.Comments),
			history.NewHandler(app.History),
			dashboard.NewHandler(app.Dashboard),
		},
	})

	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, string, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, "", fmt.Errorf("build s3 store: %w", err)
		}
		return store, "", nil
	default:
		return local.New(cfg.LocalStoreDir, cfg.PublicBaseURL), cfg.LocalStoreDir, nil
	}
}
