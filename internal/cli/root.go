package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/podote/internal/config"
	"github.com/idilsaglam/podote/internal/store"
	"github.com/idilsaglam/podote/internal/store/jsonstore"
	"github.com/idilsaglam/podote/internal/store/sqlitestore"
	"github.com/idilsaglam/podote/internal/ui"
)

// App carries the root flags and the settings resolved from them.
type App struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Theme      string
	Verbose    bool

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCmd builds the podote command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "podote",
		Short:         "podote - rich-text todo notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  podote add "Buy milk"
  podote ls
  podote done 2
  podote mv 3 1
  podote rm 3
  podote tui
`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usageError{}
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd.ErrOrStderr())
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	f := cmd.PersistentFlags()
	f.StringVar(&app.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/podote/config.yaml)")
	f.StringVar(&app.DataDir, "data-dir", "", "directory holding the todo list (default: working directory)")
	f.StringVar(&app.Backend, "backend", "", "storage backend: json or sqlite")
	f.StringVar(&app.Theme, "theme", "", "color theme: classic, neon or mono")
	f.BoolVarP(&app.Verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newDoneCmd(app),
		newEditCmd(app),
		newEditableCmd(app),
		newMoveCmd(app),
		newRemoveCmd(app),
		newShowCmd(app),
		newTUICmd(app),
		newConfigCmd(app),
	)
	return cmd
}

// setup installs the logger, then loads config and applies flag overrides.
func (a *App) setup(stderr io.Writer) error {
	level := slog.LevelInfo
	if a.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.DataDir != "" {
		cfg.DataDir = a.DataDir
	}
	if a.Backend != "" {
		cfg.Backend = a.Backend
	}
	if a.Theme != "" {
		cfg.Theme = a.Theme
	}
	if err := cfg.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)
	a.logger.Debug("config resolved", "data_dir", cfg.DataDir, "backend", cfg.Backend, "theme", cfg.Theme)
	return nil
}

// backend is a store.Backend that can also tell where it lives.
type backend interface {
	store.Backend
	Path() string
}

// openBackend opens the configured backend. closeFn releases it.
func (a *App) openBackend(ctx context.Context) (b backend, closeFn func(), err error) {
	dir, err := a.cfg.ResolveDataDir()
	if err != nil {
		return nil, nil, err
	}
	switch a.cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, dir)
		if err != nil {
			return nil, nil, err
		}
		return db, func() {
			if err := db.Close(); err != nil {
				a.logger.Warn("close database", "err", err)
			}
		}, nil
	default:
		return jsonstore.New(dir), func() {}, nil
	}
}

// openStore opens the backend and loads the item store from it.
func (a *App) openStore(ctx context.Context) (*store.Store, func(), error) {
	b, closeFn, err := a.openBackend(ctx)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(ctx, b, store.WithLogger(a.logger))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return s, closeFn, nil
}

// withStore runs f against a freshly opened store and reports a failed save
// as the command's error.
func (a *App) withStore(cmd *cobra.Command, f func(s *store.Store) error) error {
	s, closeFn, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()
	if err := f(s); err != nil {
		return err
	}
	if err := s.SaveErr(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
