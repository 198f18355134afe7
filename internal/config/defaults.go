package config

import "gopkg.in/yaml.v3"

// DefaultConfigYAML is written by `postmortem config init`.
const DefaultConfigYAML = `# postmortem configuration
#
# Every key can be overridden with POSTMORTEM_<SECTION>_<KEY>, for example
# POSTMORTEM_REPORT_DIR=/var/tmp/crashes.

log:
  level: info
  # auto, text or json
  format: auto

report:
  # Empty means the system temp directory.
  dir: ""
  prefix: postmortem
  # Collisions try <name>.1 through <name>.<max_suffix>.
  max_suffix: 100
  # Lines printed per extra-log key on the console banner.
  console_lines: 3
  max_depth: 64
  # default prints symbol+offset, fileline prints function (file:line).
  symbolicator: default

# Runs after a fatal report. Placeholders: $cmd $pid $log $time $session
handler:
  command: ""
  args: ["$cmd", "$pid", "$log"]
  timeout: 60s

# Placeholders: $cmd $pid $time $prog $stack $session
session_log:
  enabled: false
  command: ""
  args: ["$cmd", "$pid", "$time", "$prog"]
  crash_args: ["$cmd", "$pid", "$time", "$prog", "$stack"]
  timeout: 10s
`

// Render returns cfg as YAML.
func Render(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
