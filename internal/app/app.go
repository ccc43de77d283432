package app

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/joinpractice/internal/config"
	"github.com/mwantia/joinpractice/pkg/db/store"
	"github.com/mwantia/joinpractice/pkg/log"
)

// App owns the services shared by every command: the logger and the
// database store
type App struct {
	mutex sync.RWMutex

	cfg   *config.BaseConfig
	sc    *container.ServiceContainer
	log   log.LoggerService
	store *store.GormStore
}

type Option func(*App)

// WithLogger replaces the logger built from the log configuration
func WithLogger(logger log.LoggerService) Option {
	return func(a *App) {
		a.log = logger
	}
}

func New(cfg *config.BaseConfig, opts ...Option) *App {
	a := &App{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = log.NewLoggerService("joinpractice", cfg.Log)
	}
	return a
}

// Setup opens and connects the configured database and registers all
// services in the container
func (a *App) Setup(ctx context.Context) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.store != nil {
		return nil
	}

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	a.store = s

	return a.setupServices()
}

func (a *App) openStore(ctx context.Context) (*store.GormStore, error) {
	db := a.cfg.Database

	slow, err := time.ParseDuration(db.SlowThreshold)
	if err != nil {
		// Set default of 200 milliseconds if error
		slow = 200 * time.Millisecond
	}

	a.log.Debug("Opening '%s' database...", db.Type)
	s, err := store.NewStore(store.Config{
		Type:   db.Type,
		Path:   db.SQLite.Path,
		DSN:    db.Postgres.DSN,
		Logger: log.NewGormLogger(a.log.Named("gorm"), log.ParseGormLevel(db.LogLevel), slow),
	})
	if err != nil {
		return nil, err
	}

	if err := s.Connect(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (a *App) setupServices() error {
	errs := container.Errors{}

	a.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](a.sc,
		container.With[log.LoggerService](),
		container.WithInstance(a.log)))

	a.log.Debug("Registering 'Store'...")
	errs.Add(container.Register[store.GormStore](a.sc,
		container.With[store.Store](),
		container.WithInstance(a.store)))

	return errs.Errors()
}

func (a *App) Logger() log.LoggerService {
	return a.log
}

// Store resolves the registered store. Setup must have succeeded before.
func (a *App) Store(ctx context.Context) (store.Store, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	ok, resolved := a.sc.ResolveByType(ctx, reflect.TypeOf((*store.Store)(nil)).Elem())
	if !ok {
		return nil, fmt.Errorf("failed to resolve Store: no store registered")
	}

	s, ok := resolved.(store.Store)
	if !ok {
		return nil, fmt.Errorf("resolved service is not a Store")
	}
	return s, nil
}

// Close cleans up the service container and closes the database within the
// configured shutdown timeout
func (a *App) Close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	timeout, err := time.ParseDuration(a.cfg.ShutdownTimeout)
	if err != nil {
		// Set default of 10 seconds if error
		timeout = 10 * time.Second
	}

	shutdown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.sc.Cleanup(shutdown); err != nil {
		return fmt.Errorf("failed to complete service container cleanup: %w", err)
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
		a.store = nil
	}

	if closer, ok := a.log.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
