package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no file or env var says
// otherwise.
func Default() *Config {
	return &Config{
		DataDir:     DefaultDataDir(),
		CurrentUser: "user-1",
		MissingDue:  "epoch",
		StartView:   "dashboard",
		SeedDemo:    true,
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// DefaultDataDir returns ~/.config/minima, or .minima when the user config
// directory is unknown.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".minima"
	}
	return filepath.Join(dir, "minima")
}

func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

const header = `# minima configuration
# Every key can be overridden with a MINIMA_ environment variable,
# e.g. MINIMA_CURRENT_USER=user-2 or MINIMA_SERVER_ADDR=:9090.
# missing_due: "epoch" counts tasks without a due date as overdue,
# "ignore" leaves them out of upcoming and overdue.
# start_view: dashboard, projects, mytasks, notifications, settings,
# or "last" to reopen the tab that was open on exit.

`

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
