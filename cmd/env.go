package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/config"
	"github.com/abhisek/sensei/internal/logging"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/supabase"
)

// requestLogKeep is how many request events survive the prune on close.
const requestLogKeep = 5000

// env is everything a command needs to talk to the services.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	auth    *auth.Manager
	backend api.Backend
	runner  api.Runner
	data    supabase.Data
}

// loadConfig reads the config file named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db, then SENSEI_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the local database only.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openEnv loads config, opens the store and builds the service clients.
// Every HTTP client records its calls in the request log.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	requests := st.RequestRepo()

	sb := supabase.New(cfg.Supabase.URL, cfg.Supabase.AnonKey, supabase.WithHTTPClient(&http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: api.WithLogging(nil, "supabase", requests, logger),
	}))
	manager := auth.NewManager(sb, st.SessionRepo(), logger)
	manager.CallbackPort = cfg.OAuth.CallbackPort

	return &env{
		cfg:    cfg,
		logger: logger,
		store:  st,
		auth:   manager,
		backend: api.NewBackend(api.Options{
			BaseURL:   cfg.BackendURL,
			Timeout:   cfg.HTTPTimeout,
			Transport: api.WithLogging(nil, "backend", requests, logger),
		}),
		runner: api.NewRunner(api.Options{
			BaseURL:   cfg.CodeRunnerURL,
			Timeout:   cfg.HTTPTimeout,
			Transport: api.WithLogging(nil, "runner", requests, logger),
		}),
		data: supabase.NewTables(sb, manager.AccessToken),
	}, nil
}

// Close prunes the request log and releases the store and logger.
func (e *env) Close() {
	if err := e.store.RequestRepo().Prune(context.Background(), requestLogKeep); err != nil {
		e.logger.Warn("prune request log", zap.Error(err))
	}
	_ = e.store.Close()
	_ = e.logger.Sync()
}

// session returns the signed-in session or a hint to sign in.
func (e *env) session(ctx context.Context) (*auth.Session, error) {
	sess, err := e.auth.Current(ctx)
	if errors.Is(err, auth.ErrNotSignedIn) {
		return nil, errors.New("not signed in; run `sensei login` first")
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// deps builds the shared screen dependencies for the TUI.
func (e *env) deps() *screen.Deps {
	return &screen.Deps{
		Auth:          e.auth,
		Backend:       e.backend,
		Runner:        e.runner,
		Data:          e.data,
		Logger:        e.logger,
		OpenURL:       browser.OpenURL,
		PollInterval:  e.cfg.PollInterval,
		QuizQuestions: e.cfg.Quiz.Questions,
	}
}

// getSkill loads a skill the signed-in user owns.
func (e *env) getSkill(ctx context.Context, sess *auth.Session, id string) (*api.Skill, error) {
	s, err := e.data.GetSkill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}
	if s == nil || (s.UserID != "" && s.UserID != sess.UserID) {
		return nil, fmt.Errorf("skill %s not found", id)
	}
	return s, nil
}
