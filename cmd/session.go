package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/client"
	"github.com/user/notecards/internal/config"
	"github.com/user/notecards/internal/db"
	"github.com/user/notecards/internal/db/memory"
	"github.com/user/notecards/internal/logging"
	"github.com/user/notecards/internal/rpc"
)

// session is what a command works against: the procedures either in-process
// over the configured store, or on a remote server.
type session struct {
	cfg   *config.Config
	api   rpc.API
	store db.Store
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openSession loads config and connects. A nil logger gets the CLI default.
func openSession(logger *slog.Logger) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = cliLogger(cfg)
	}

	if cfg.Remote() {
		return &session{
			cfg: cfg,
			api: client.NewHTTP(cfg.Server.URL, cfg.Server.RequestTimeout+5*time.Second),
		}, nil
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:   cfg,
		api:   rpc.NewProcedures(store, access.ReadOnly(cfg.PublicMode), logger, cfg.Server.RequestTimeout),
		store: store,
	}, nil
}

// openStore opens the configured store, or a memory store for --ephemeral.
func openStore(cfg *config.Config, logger *slog.Logger) (db.Store, error) {
	if v.GetBool("ephemeral") {
		return memory.New(), nil
	}
	store, err := db.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store.WithLogger(logger), nil
}

// cliLogger keeps one-shot commands quiet: store failures still reach stderr,
// per-call info lines do not.
func cliLogger(cfg *config.Config) *slog.Logger {
	lc := cfg.Log
	if logging.ParseLevel(lc.Level) == slog.LevelInfo {
		lc.Level = "warn"
	}
	return logging.New(lc)
}
