package config

// Config holds the complete application configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Report     ReportConfig     `mapstructure:"report" yaml:"report"`
	Handler    HandlerConfig    `mapstructure:"handler" yaml:"handler"`
	SessionLog SessionLogConfig `mapstructure:"session_log" yaml:"session_log"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ReportConfig configures where reports go and how much they hold.
type ReportConfig struct {
	// Dir is the report directory; empty means the system temp dir.
	Dir          string `mapstructure:"dir" yaml:"dir"`
	Prefix       string `mapstructure:"prefix" yaml:"prefix"`
	MaxSuffix    int    `mapstructure:"max_suffix" yaml:"max_suffix"`
	ConsoleLines int    `mapstructure:"console_lines" yaml:"console_lines"`
	MaxDepth     int    `mapstructure:"max_depth" yaml:"max_depth"`
	// Symbolicator is "default" (symbol+offset) or "fileline".
	Symbolicator string `mapstructure:"symbolicator" yaml:"symbolicator"`
}

// HandlerConfig configures the postmortem handler.
type HandlerConfig struct {
	Command string   `mapstructure:"command" yaml:"command"`
	Args    []string `mapstructure:"args" yaml:"args"`
	Timeout string   `mapstructure:"timeout" yaml:"timeout"`
}

// SessionLogConfig configures the session-log command.
type SessionLogConfig struct {
	Enabled   bool     `mapstructure:"enabled" yaml:"enabled"`
	Command   string   `mapstructure:"command" yaml:"command"`
	Args      []string `mapstructure:"args" yaml:"args"`
	CrashArgs []string `mapstructure:"crash_args" yaml:"crash_args"`
	Timeout   string   `mapstructure:"timeout" yaml:"timeout"`
}
