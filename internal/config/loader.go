package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEnvPrefix prefixes every environment override, for example
// POSTMORTEM_REPORT_DIR for report.dir.
const DefaultEnvPrefix = "POSTMORTEM"

// projectConfigName is looked up in the working directory as
// .postmortem.yaml.
const projectConfigName = ".postmortem"

// defaults mirrors DefaultConfigYAML.
var defaults = map[string]any{
	"log.level":  "info",
	"log.format": "auto",

	"report.dir":           "",
	"report.prefix":        "postmortem",
	"report.max_suffix":    100,
	"report.console_lines": 3,
	"report.max_depth":     64,
	"report.symbolicator":  "default",

	"handler.command": "",
	"handler.args":    []string{"$cmd", "$pid", "$log"},
	"handler.timeout": "60s",

	"session_log.enabled":    false,
	"session_log.command":    "",
	"session_log.args":       []string{"$cmd", "$pid", "$time", "$prog"},
	"session_log.crash_args": []string{"$cmd", "$pid", "$time", "$prog", "$stack"},
	"session_log.timeout":    "10s",
}

// Loader resolves a Config from, highest first: values set on the viper
// instance (bound CLI flags), POSTMORTEM_* variables, the first config file
// found and the built-in defaults. The file is the explicit one when given,
// else ./.postmortem.yaml, else ~/.config/postmortem/config.yaml.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader returns a loader with a private viper instance.
func NewLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

// NewLoaderWithViper shares v, so flags bound to it take part in precedence.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v, envPrefix: DefaultEnvPrefix}
}

// WithConfigFile makes Load read path and fail if it is missing.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Viper exposes the instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load builds the configuration. It does not validate it.
func (l *Loader) Load() (*Config, error) {
	for key, value := range defaults {
		l.v.SetDefault(key, value)
	}
	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if err := l.readFile(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func (l *Loader) readFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", l.configFile, err)
		}
		return nil
	}

	l.v.SetConfigName(projectConfigName)
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")
	err := l.v.ReadInConfig()
	if err == nil {
		return nil
	}
	if !errors.As(err, new(viper.ConfigFileNotFoundError)) {
		return fmt.Errorf("reading project config: %w", err)
	}

	user, err := UserConfigPath()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(user); err != nil {
		return nil
	}
	l.v.SetConfigFile(user)
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading user config %s: %w", user, err)
	}
	return nil
}

// ConfigFile names the file Load read, or "" when none was found.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// UserConfigPath returns ~/.config/postmortem/config.yaml.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "postmortem", "config.yaml"), nil
}
