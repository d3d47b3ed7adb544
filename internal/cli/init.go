package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cadence/internal/paths"
	"github.com/mesh-intelligence/cadence/pkg/cadence"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize cadence storage",
		Long: `Init creates the configuration directory with a default config.yaml,
then creates the data directory and seeds the default communication methods.

Running init again leaves existing configuration and data untouched.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	wrote, err := writeConfigIfMissing(a.configDir, a.flags.dataDir)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	out := cmd.OutOrStdout()
	return a.withSession(func(s *cadence.Session) error {
		if a.flags.jsonMode {
			return writeJSON(out, map[string]any{
				"config_dir":     a.configDir,
				"config_written": wrote,
				"data_dir":       s.DataDir(),
			})
		}
		if wrote {
			fmt.Fprintf(out, "Wrote %s\n", paths.ConfigFile(a.configDir))
		}
		fmt.Fprintf(out, "Data directory: %s\n", s.DataDir())
		fmt.Fprintln(out, "Cadence initialized successfully")
		return nil
	})
}
