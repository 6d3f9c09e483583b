package config

import (
	"fmt"
	"path/filepath"

	"github.com/sadopc/minima/internal/board"
)

// Config is everything minima reads at startup.
type Config struct {
	// Directory holding the database, lock file and debug log.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// Database file. Defaults to <data_dir>/minima.db.
	DBPath string `yaml:"db_path,omitempty" mapstructure:"db_path"`

	// The user the app acts as.
	CurrentUser string `yaml:"current_user" mapstructure:"current_user"`

	// How tasks without a due date count on the dashboard: epoch or ignore.
	MissingDue string `yaml:"missing_due" mapstructure:"missing_due"`

	// Tab shown on launch, or "last".
	StartView string `yaml:"start_view" mapstructure:"start_view"`

	// Load the demo workspace into an empty database.
	SeedDemo bool `yaml:"seed_demo" mapstructure:"seed_demo"`

	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	// Origins allowed by CORS. Empty allows any.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" mapstructure:"allowed_origins"`
}

// Views lists the TUI tabs in order.
var Views = []string{"dashboard", "projects", "mytasks", "notifications", "settings"}

// LastView as StartView reopens the tab that was open on exit.
const LastView = "last"

// ValidView reports whether v names a tab or LastView.
func ValidView(v string) bool {
	if v == LastView {
		return true
	}
	for _, name := range Views {
		if v == name {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if c.CurrentUser == "" {
		return fmt.Errorf("current_user must be set")
	}
	if _, err := board.ParseMissingDuePolicy(c.MissingDue); err != nil {
		return err
	}
	if !ValidView(c.StartView) {
		return fmt.Errorf("unknown start_view %q", c.StartView)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set")
	}
	return nil
}

// Classifier returns the dashboard classifier for the configured policy.
// Call Validate first; an invalid policy falls back to epoch.
func (c *Config) Classifier() board.Classifier {
	p, err := board.ParseMissingDuePolicy(c.MissingDue)
	if err != nil {
		p = board.MissingDueEpoch
	}
	return board.Classifier{MissingDue: p}
}

func (c *Config) Database() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "minima.db")
}

func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "minima.lock")
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "minima.log")
}
