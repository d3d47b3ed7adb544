// Package cli implements the cadence command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/cadence/internal/paths"
	"github.com/mesh-intelligence/cadence/internal/validate"
	"github.com/mesh-intelligence/cadence/pkg/cadence"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one command tree.
type app struct {
	flags rootFlags
	now   func() time.Time

	configDir string
	config    *viper.Viper
	logger    *zap.Logger
	validator *validate.Validator
}

func newApp() *app {
	return &app{now: time.Now, logger: zap.NewNop()}
}

// NewRootCmd creates the top-level "cadence" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cadence",
		Short: "Track company communications and when the next one is due",
		Long: "Cadence records the companies you keep in touch with, logs each\n" +
			"communication, and reminds you when the next contact is overdue or due today.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.cadence)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.cadence-db)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCompanyCmd(a))
	root.AddCommand(newMethodCmd(a))
	root.AddCommand(newLogCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newNextCmd(a))
	root.AddCommand(newDashboardCmd(a))
	root.AddCommand(newNotificationsCmd(a))
	root.AddCommand(newCalendarCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// setup resolves the config directory, loads config.yaml, and builds the
// logger and validator.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.flags.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		a.logger = logger
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	a.configDir = configDir
	a.config = v
	a.validator = validate.New(v.GetString(cfgKeyPhoneRegion))
	a.logger.Debug("config loaded",
		zap.String("config_dir", configDir),
		zap.String("config_file", v.ConfigFileUsed()))
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	// Sync fails on terminals; there is nothing useful to report.
	_ = a.logger.Sync()
	return nil
}

// backendConfig returns the backend configuration for the resolved data dir.
func (a *app) backendConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:      a.config.GetString(cfgKeyBackend),
		DataDir:      dataDir,
		SyncStrategy: a.config.GetString(cfgKeySyncStrategy),
	}, nil
}

// open writes a default config.yaml if none exists and opens a session on
// the data directory. The caller must Close the session.
func (a *app) open() (*cadence.Session, error) {
	if _, err := writeConfigIfMissing(a.configDir, ""); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}
	cfg, err := a.backendConfig()
	if err != nil {
		return nil, err
	}
	s, err := cadence.Open(cfg, cadence.WithLogger(a.logger), cadence.WithClock(a.now))
	if err != nil {
		return nil, fmt.Errorf("open data dir: %w", err)
	}
	return s, nil
}

// withSession opens a session, runs fn, and closes the session. Errors from
// persisting fn's mutations are returned if fn itself succeeded.
func (a *app) withSession(fn func(s *cadence.Session) error) error {
	s, err := a.open()
	if err != nil {
		return err
	}
	err = fn(s)
	if cerr := s.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("save: %w", cerr)
	}
	return err
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// exitCode maps err to a process exit code. Invalid input, unknown or
// ambiguous references, and usage mistakes are user errors; anything else
// is a system error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var verr *validate.Error
	var uerr *usageError
	switch {
	case errors.As(err, &verr), errors.As(err, &uerr),
		errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrAmbiguous):
		return exitUserError
	default:
		return exitSysError
	}
}
