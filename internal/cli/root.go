package cli

import (
	"os"
	"strings"

	"hrdash/internal/api"
	"hrdash/internal/config"
	"hrdash/internal/format"
	"hrdash/internal/logger"
	"hrdash/internal/session"
	"hrdash/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	APIURL     string
	ParseURL   string
	PrettyJSON bool
	Format     string

	cfg *config.Config
	log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "hrdash",
		Short:        "HR resume dashboard (terminal client)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  hrdash

  # Scriptable commands
  hrdash login --domain hr-7
  hrdash profiles list --sector Finance --page 2
  hrdash profiles update 42 --set email=new@example.com
  hrdash upload cv1.pdf cv2.docx
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("HRDASH_CONFIG", ""), "Path to config.yaml (default: ~/.hrdash/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("HRDASH_API_URL", ""), "Base URL of the auth/CRUD service (overrides config)")
	cmd.PersistentFlags().StringVar(&app.ParseURL, "parse-url", envOr("HRDASH_PARSE_URL", ""), "Base URL of the resume parse service (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("HRDASH_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newProfilesCmd(app))
	cmd.AddCommand(newFiltersCmd(app))
	cmd.AddCommand(newUploadCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	// The TUI owns the terminal; log lines go to a file or nowhere.
	if cfg.Logger.File != "" {
		f, err := logger.OpenLogFile(cfg.Logger.File)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.Init(loggerConfig(cfg), f)
	} else {
		logger.InitDiscard()
	}

	dir, err := session.ConfigDir()
	if err != nil {
		return err
	}
	store := session.Store{Dir: dir}
	client := api.New(cfg.API, logger.Logger)
	return tui.Run(client, store, cfg)
}

// loadConfig resolves the config file and applies flag overrides on top.
func loadConfig(app *App) (*config.Config, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if app.APIURL != "" {
		cfg.API.BaseURL = strings.TrimRight(app.APIURL, "/")
	}
	if app.ParseURL != "" {
		cfg.API.ParseURL = strings.TrimRight(app.ParseURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app.cfg = cfg
	return cfg, nil
}

// newClient builds the API client for scriptable commands; logs go to
// stderr at the configured level.
func newClient(app *App) (*api.Client, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, err
	}
	logger.Init(loggerConfig(cfg), os.Stderr)
	app.log = logger.Logger
	return api.New(cfg.API, app.log), nil
}

func loggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	}
}

func sessionStore() (session.Store, error) {
	dir, err := session.ConfigDir()
	if err != nil {
		return session.Store{}, err
	}
	return session.Store{Dir: dir}, nil
}

// requireSession loads the persisted session for commands that talk to the
// authenticated endpoints.
func requireSession() (session.Store, session.Session, error) {
	store, err := sessionStore()
	if err != nil {
		return session.Store{}, session.Session{}, err
	}
	sess, err := store.Load()
	if err != nil {
		return store, session.Session{}, err
	}
	if !sess.Valid() {
		return store, session.Session{}, errNotLoggedIn()
	}
	return store, sess, nil
}

// expireSession converts the expired-token sentinel into a user-facing
// error after clearing the persisted session.
func expireSession(store session.Store) error {
	_ = store.Clear()
	return errSessionExpired()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeTable(cmd *cobra.Command, header []string, rows [][]string) error {
	return format.WriteTable(cmd.OutOrStdout(), header, rows)
}
