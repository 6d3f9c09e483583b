// Package cli wires the cobra command tree: the TUI by default, plus
// scriptable subcommands over the same workspace.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/minima/internal/config"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	user       string
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	var view string

	root := &cobra.Command{
		Use:   "minima",
		Short: "Minimal project and task manager for the terminal",
		Long: `minima keeps projects, tasks and notifications in a local SQLite
database and shows them in a terminal UI.

Run without a subcommand to open the UI. The subcommands print the same data
for scripts, export it, or serve it as a local JSON API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g, view)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&g.user, "user", "", "act as this user id")
	root.Flags().StringVar(&view, "view", "", "tab to open: dashboard, projects, mytasks, notifications, settings or last")

	root.AddCommand(
		newTasksCmd(g),
		newMoveCmd(g),
		newDashboardCmd(g),
		newBoardCmd(g),
		newNotificationsCmd(g),
		newExportCmd(g),
		newServeCmd(g),
		newConfigCmd(g),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads the config file and applies the global overrides.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.user != "" {
		cfg.CurrentUser = g.user
	}
	return cfg, nil
}
