// Package cli implements the windowrun command line client.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/windowrun/windowrun/internal/cache"
	"github.com/windowrun/windowrun/internal/config"
	"github.com/windowrun/windowrun/internal/session"
	"github.com/windowrun/windowrun/internal/store"
	"github.com/windowrun/windowrun/internal/sync"
	"github.com/windowrun/windowrun/internal/webhook"
)

// App holds the wired-up client. Commands operate on the local store
// first; the sync engine pushes changes in the background and Flush in
// the post-run hook keeps a short-lived process from dropping them.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Cache    *cache.SQLite
	Engine   *sync.Engine
	Sessions *session.Manager
	Sender   *webhook.Sender
	Logger   *slog.Logger
}

// Execute runs the root command and reports failures in the shared style.
// Returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failure("Error: "+err.Error()))
		return 1
	}

	return 0
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	CachePath string
}

// NewRootCommand creates the root command for the windowrun CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	app := &App{}

	cmd := &cobra.Command{
		Use:           "windowrun",
		Short:         "Local-first job and quote management for window cleaners",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.teardown()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", "", "path to the local cache database")

	cmd.AddCommand(newSignupCommand(app))
	cmd.AddCommand(newLoginCommand(app))
	cmd.AddCommand(newLogoutCommand(app))
	cmd.AddCommand(newResetAppCommand(app))
	cmd.AddCommand(newChangePasswordCommand(app))
	cmd.AddCommand(newForgotPasswordCommand(app))
	cmd.AddCommand(newTenantsCommand(app))
	cmd.AddCommand(newCustomerCommand(app))
	cmd.AddCommand(newQuoteCommand(app))
	cmd.AddCommand(newJobCommand(app))
	cmd.AddCommand(newAgendaCommand(app))
	cmd.AddCommand(newDashboardCommand(app))
	cmd.AddCommand(newInvoiceCommand(app))

	return cmd
}

func (a *App) setup(opts *RootOptions) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cachePath := cfg.App.CachePath
	if opts.CachePath != "" {
		cachePath = opts.CachePath
	}

	c, err := cache.Open(cachePath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	client := sync.NewClient(cfg.App.RemoteURL, cfg.App.RequestTimeout)

	a.Config = cfg
	a.Cache = c
	a.Logger = logger
	a.Store = store.New(c, store.NopOutbox{}, logger)
	a.Store.Load()

	engine := sync.NewEngine(client, sync.StoreCredentials(a.Store), logger)
	a.Store.SetOutbox(engine)
	a.Engine = engine

	operator := session.Operator{Email: cfg.Operator.Email, Password: cfg.Operator.Password}
	a.Sessions = session.NewManager(a.Store, client, operator, cfg.App.AdminKey, logger)
	a.Sender = webhook.NewSender(cfg.App.RequestTimeout)

	return nil
}

func (a *App) teardown() {
	if a.Sessions != nil {
		a.Sessions.Wait()
	}

	if a.Engine != nil {
		a.Engine.Flush()
	}

	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn("closing cache", "error", err)
		}
	}
}
