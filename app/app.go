// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"service-desk/config"
	"service-desk/db"
	"service-desk/handler"
	"service-desk/logger"
	"service-desk/model"
	"service-desk/repository"
	"service-desk/repository/inmemory"
	"service-desk/router"
	"service-desk/service"
	"service-desk/storage"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Backends are the storage collaborators the application is assembled from.
type Backends struct {
	Users      repository.IUserRepository
	Categories repository.ICategoryRepository
	Requests   repository.IRequestRepository
	Cache      service.ICacheClient
	Media      afero.Fs
}

// App is the fully wired application.
type App struct {
	Router     http.Handler
	Auth       *service.AuthService
	Sessions   *service.SessionService
	Requests   *service.RequestService
	Categories *service.CategoryService
	Backends   Backends
}

// auditRegistration records every new account.
func auditRegistration(_ context.Context, user *model.User) {
	logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	}).Info("New account registered")
}

// New wires services, handlers and routes on top of b.
func New(cfg config.Config, b Backends) *App {
	policy := service.AccessPolicy{CategoryRequiresAdmin: cfg.Access.CategoryRequiresAdmin}
	photos := storage.NewPhotoStoreFs(b.Media)

	authService := service.NewAuthService(b.Users, b.Cache, auditRegistration)
	sessionService := service.NewSessionService(b.Cache, cfg.Session.SecretKey, cfg.Session.TTL)
	requestService := service.NewRequestService(b.Requests, b.Categories, photos, b.Cache, policy, cfg.Media.MaxPhotoBytes)
	categoryService := service.NewCategoryService(b.Categories, b.Cache, policy)

	responder := handler.NewResponder(sessionService, cfg.Server.BasePath)
	sessions := handler.NewSessionMiddleware(sessionService, authService, cfg.Session.CookieSecure)

	r := router.NewRouter(router.Deps{
		Accounts:   handler.NewAccountHandler(authService, sessionService, sessions, responder),
		Requests:   handler.NewRequestHandler(requestService, categoryService, policy, responder, cfg.Media.MaxPhotoBytes),
		Categories: handler.NewCategoryHandler(categoryService, responder),
		Sessions:   sessions,
		Responder:  responder,
		Media:      photos.Fs(),
		MediaURL:   cfg.Media.URL,
		BasePath:   cfg.Server.BasePath,
	})

	return &App{
		Router:     r,
		Auth:       authService,
		Sessions:   sessionService,
		Requests:   requestService,
		Categories: categoryService,
		Backends:   b,
	}
}

// NewTestApp builds an App on in-memory storage, cache and filesystem.
func NewTestApp(cfg config.Config) *App {
	store := inmemory.NewStorage()
	return New(cfg, Backends{
		Users:      store,
		Categories: store,
		Requests:   store,
		Cache:      inmemory.NewCache(),
		Media:      afero.NewMemMapFs(),
	})
}

// openBackends connects to the configured stores. The returned cleanup
// closes whatever was opened.
func openBackends(cfg config.Config) (Backends, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Log.WithError(err).Warn("Error while closing backend")
			}
		}
	}

	b := Backends{Media: afero.NewBasePathFs(afero.NewOsFs(), cfg.Media.Root)}
	if err := os.MkdirAll(cfg.Media.Root, 0o755); err != nil {
		return b, cleanup, fmt.Errorf("could not create media root: %w", err)
	}

	switch cfg.Database.Driver {
	case "memory":
		logger.Log.Warn("Using in-memory storage; data is lost on restart")
		store := inmemory.NewStorage()
		b.Users, b.Categories, b.Requests = store, store, store
	case "postgres", "":
		database, err := db.Connect()
		if err != nil {
			return b, cleanup, err
		}
		closers = append(closers, database.Close)
		if cfg.Database.Migrations {
			if err := db.Migrate(database); err != nil {
				cleanup()
				return b, func() {}, err
			}
		}
		b.Users = repository.NewUserRepository(database)
		b.Categories = repository.NewCategoryRepository(database)
		b.Requests = repository.NewRequestRepository(database)
	default:
		return b, cleanup, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled {
		rdb, err := db.ConnectRedis()
		if err != nil {
			cleanup()
			return b, func() {}, err
		}
		closers = append(closers, rdb.Close)
		b.Cache = rdb
	} else {
		logger.Log.Warn("Redis disabled; sessions and flash messages are kept in process memory")
		b.Cache = inmemory.NewCache()
	}
	return b, cleanup, nil
}

func bootstrap(configPath string) {
	config.LoadConfig(configPath)
	logger.Init()
	logger.SetLevel(config.AppConfig.Log.Level)
	logger.Log.Info("Configuration loaded successfully")
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func Run(configPath string) {
	bootstrap(configPath)
	cfg := config.AppConfig
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Refusing to start: %v", err)
	}

	backends, cleanup, err := openBackends(cfg)
	if err != nil {
		logger.Log.Fatalf("Error initializing backends: %v", err)
	}
	defer cleanup()

	application := New(cfg, backends)

	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	logger.Log.Info("Server exited properly")
}

// Migrate applies pending schema migrations and exits.
func Migrate(configPath string) error {
	bootstrap(configPath)

	database, err := db.Connect()
	if err != nil {
		return err
	}
	defer func(database *sql.DB) {
		_ = database.Close()
	}(database)

	return db.Migrate(database)
}

// CreateSuperuser adds an administrator account.
func CreateSuperuser(configPath, username, email, password string) error {
	bootstrap(configPath)
	cfg := config.AppConfig
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Refusing to start: %v", err)
	}

	backends, cleanup, err := openBackends(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := New(cfg, backends).Auth.CreateSuperuser(context.Background(), username, email, password)
	if err != nil {
		return err
	}
	logger.Log.WithField("user_id", user.ID).Info("Superuser created")
	return nil
}
