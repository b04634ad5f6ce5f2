package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tutolearn/tuto/internal/llm"
	"github.com/tutolearn/tuto/internal/logger"
	"github.com/tutolearn/tuto/internal/progress"
	"github.com/tutolearn/tuto/internal/store"
	"github.com/tutolearn/tuto/internal/ui/theme"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	dbPath     string
	configPath string
	storeKind  string
	redisAddr  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tuto",
		Short:         "AI study planner",
		Long:          "Tuto generates multi-week study plans with an AI provider, quizzes you on each day and tracks your progress.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.dbPath, "db", "", "Path to SQLite database file (overrides TUTO_DB env var)")
	f.StringVar(&opts.configPath, "config", "", "Path to provider config YAML (overrides TUTO_CONFIG env var); groq is enabled by default, so set groq.enabled: false when enabling another provider")
	f.StringVar(&opts.storeKind, "store", "sqlite", "Where plans and progress live: sqlite or redis")
	f.StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "Redis address when --store=redis")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging to stderr")

	root.AddCommand(
		newPlanCmd(opts),
		newDayCmd(opts),
		newQuizCmd(opts),
		newAskCmd(opts),
		newLLMCmd(opts),
		newThemeCmd(opts),
		newAuthCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// env is what a command needs at run time. Close releases all of it.
type env struct {
	opts     *rootOptions
	log      *zap.Logger
	db       *store.Store
	kv       store.KV
	progress *progress.Store
	theme    theme.Theme
	out      io.Writer

	closers []func() error
}

// openEnv builds the logger and opens the stores selected by the flags.
// The event log always lives in SQLite; plans and progress follow --store.
func openEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	log, err := logger.New(opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	e := &env{opts: opts, log: log, out: cmd.OutOrStdout()}
	e.closers = append(e.closers, func() error { _ = log.Sync(); return nil })

	dbPath, err := resolveDBPath(opts)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	e.db, err = store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.closers = append(e.closers, e.db.Close)

	switch strings.ToLower(opts.storeKind) {
	case "", "sqlite":
		e.kv = e.db.KV()
	case "redis":
		rkv, err := store.OpenRedis(cmd.Context(), opts.redisAddr, "tuto:")
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		e.kv = rkv
		e.closers = append(e.closers, rkv.Close)
	default:
		e.Close()
		return nil, fmt.Errorf("unknown --store %q (want sqlite or redis)", opts.storeKind)
	}

	e.progress = progress.New(e.kv, log)

	name, err := store.Theme(cmd.Context(), e.kv)
	if err != nil {
		log.Warn("read theme", zap.Error(err))
	}
	e.theme = theme.ForName(name)

	log.Debug("environment ready", zap.String("db", dbPath), zap.String("store", opts.storeKind))
	return e, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.Warn("close", zap.Error(err))
		}
	}
}

// client opens the AI client for the configured provider. The local
// server falls back to the stored auth token when no key is configured.
func (e *env) client(ctx context.Context) (*llm.Client, llm.Config, error) {
	cfg, err := llm.LoadConfig(e.opts.configPath)
	if err != nil {
		return nil, cfg, err
	}
	if cfg.Local.Enabled && cfg.Local.APIKey == "" {
		token, err := store.AuthToken(ctx, e.kv)
		if err != nil {
			e.log.Warn("read auth token", zap.Error(err))
		}
		cfg.Local.APIKey = token
	}
	c, err := llm.Open(ctx, cfg, e.db.EventRepo(), e.log)
	return c, cfg, err
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TUTO_DB env var, then the default XDG path.
func resolveDBPath(opts *rootOptions) (string, error) {
	if opts.dbPath != "" {
		return opts.dbPath, store.EnsureDir(opts.dbPath)
	}
	return store.DefaultDBPath()
}

// withEnv wraps a command body with environment setup and teardown.
func withEnv(opts *rootOptions, run func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, opts)
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, e, args)
	}
}
