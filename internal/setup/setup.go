package setup

import (
	"context"
	"fmt"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/email"
	"github.com/mindgames-dev/mindgames/internal/handler"
	"github.com/mindgames-dev/mindgames/internal/jwt"
	"github.com/mindgames-dev/mindgames/internal/logger"
	mw "github.com/mindgames-dev/mindgames/internal/middleware"
	"github.com/mindgames-dev/mindgames/internal/schema"
	"github.com/mindgames-dev/mindgames/internal/service"
	"github.com/mindgames-dev/mindgames/internal/service/markup"
	"github.com/mindgames-dev/mindgames/internal/storage"
)

// Dependencies holds everything the serve command runs.
type Dependencies struct {
	Config         *config.Config
	Storage        *storage.Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth

	// Background refreshers
	StatusCache *service.StatusCache
	TextCache   *service.TextCache
	Logs        *service.Logs
}

type Options struct {
	// Migrate applies pending migrations before the caches read the schema.
	Migrate bool
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config, opts Options) (*Dependencies, error) {
	st, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if opts.Migrate {
		n, err := st.Migrate(ctx)
		if err != nil {
			st.Cleanup()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Log.Info("migrations applied", "count", n)
	}
	deps, err := setupWithStorage(cfg, st)
	if err != nil {
		st.Cleanup()
		return nil, err
	}
	return deps, nil
}

func setupWithStorage(cfg *config.Config, st *storage.Storage) (*Dependencies, error) {
	validator, err := schema.NewDefault()
	if err != nil {
		return nil, fmt.Errorf("load json schemas: %w", err)
	}

	statusCache := service.NewStatusCache(st)
	if err := statusCache.Update(); err != nil {
		return nil, fmt.Errorf("load account status cache: %w", err)
	}
	textCache := service.NewTextCache(st)
	if err := textCache.Update(); err != nil {
		return nil, fmt.Errorf("load errortext cache: %w", err)
	}

	sender := email.NewRecorder(email.New(&cfg.Private.Email), st)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL(), cfg.Public.JwtRefreshThreshold)
	public := &cfg.Public

	logs := service.NewLogs(st, public)
	services := handler.Services{
		Auth:       service.NewAuth(st, sender, jwtService, public, statusCache),
		Users:      service.NewUsers(st, public, statusCache),
		Therapists: service.NewTherapists(st, sender, public, statusCache),
		Patients:   service.NewPatients(st, sender, public, statusCache),
		Games:      service.NewGames(st, validator, public),
		Errortexts: service.NewErrortexts(st, textCache, public),
		Helptexts:  service.NewHelptexts(st, markup.New(), public),
		Logs:       logs,
	}

	return &Dependencies{
		Config:         cfg,
		Storage:        st,
		Handler:        handler.New(services, st, cfg),
		AuthMiddleware: mw.NewAuth(jwtService, statusCache, cfg.Public.SecureCookies),
		StatusCache:    statusCache,
		TextCache:      textCache,
		Logs:           logs,
	}, nil
}
