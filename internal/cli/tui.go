package cli

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/minima/internal/config"
	"github.com/sadopc/minima/internal/tui"
)

func runTUI(cmd *cobra.Command, g *globalFlags, view string) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if view != "" {
		if !config.ValidView(view) {
			return fmt.Errorf("unknown view %q", view)
		}
		cfg.StartView = view
	}

	rt, err := openRuntime(cfg, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	if os.Getenv("MINIMA_DEBUG") != "" {
		f, err := tea.LogToFile(cfg.LogPath(), "minima")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		log.Printf("starting as %s with %s", cfg.CurrentUser, cfg.Database())
	}

	app := tui.NewApp(rt.session, rt.store, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
