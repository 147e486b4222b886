package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// A .env file in the working directory is read into the environment first;
// variables already set win over it.
func Load(ctx context.Context, v *viper.Viper) error {
	_ = godotenv.Load()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "marketeer"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "marketeer"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	// Missing file is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return err
		}
	}

	// Environment variables: MARKETEER_* (highest among these sources)
	v.SetEnvPrefix("marketeer")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	v.Set("server_url", strings.TrimRight(strings.TrimSpace(v.GetString("server_url")), "/"))
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/marketeer or ~/.local/share/marketeer
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "marketeer")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "marketeer")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "marketeer", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "server_url", Default: "http://localhost:8000", Comment: "Base URL of the analysis service"},
		{Key: "timeout", Default: "120s", Comment: "Per-request timeout; analyses can take minutes"},
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; history DB is data_dir/history.db"},
		{Key: "pager", Default: true, Comment: "Pipe long output through $PAGER when stdout is a terminal"},

		{Key: "history.backend", Default: "sqlite", Comment: "History storage: sqlite or mem"},
		{Key: "history.size", Default: 10, Comment: "Number of recent results to keep"},

		{Key: "output.mode", Default: "pretty", Comment: "Result output: plain, pretty, markdown, json"},
		{Key: "output.width", Default: 80, Comment: "Word-wrap width for markdown output"},
		{Key: "output.style", Default: "dracula", Comment: "Glamour style for markdown output"},
	}
}

// Timeout parses the timeout option, falling back to the default on error.
func Timeout(v *viper.Viper) time.Duration {
	d, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// HistoryDSN builds the history store DSN from history.backend and data_dir.
func HistoryDSN(v *viper.Viper) string {
	if strings.EqualFold(v.GetString("history.backend"), "mem") {
		return "mem://"
	}
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return "sqlite://" + filepath.Join(dir, "history.db")
}
