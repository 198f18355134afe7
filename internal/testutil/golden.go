// Package testutil holds golden-file helpers for report and console output.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "rewrite golden files from actual output")

// Scrubber masks a run-dependent part of report text.
type Scrubber func(string) string

// Golden compares output with <dir>/<name>.golden. Both sides are scrubbed
// and normalized first, so golden files may keep real addresses or pids.
type Golden struct {
	t      *testing.T
	dir    string
	scrubs []Scrubber
}

func NewGolden(t *testing.T, dir string, scrubs ...Scrubber) *Golden {
	return &Golden{t: t, dir: dir, scrubs: scrubs}
}

// Assert fails the test when actual differs from the golden file. With
// -update it writes actual instead.
func (g *Golden) Assert(name string, actual []byte) {
	g.t.Helper()
	path := filepath.Join(g.dir, name+".golden")

	if *update {
		require.NoError(g.t, os.MkdirAll(g.dir, 0o750))
		require.NoError(g.t, os.WriteFile(path, actual, 0o600))
		g.t.Logf("updated %s", path)
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(g.t, err, "missing golden file; run with -update")
	assert.Equal(g.t, g.clean(string(want)), g.clean(string(actual)), "golden %s", path)
}

func (g *Golden) AssertString(name, actual string) {
	g.t.Helper()
	g.Assert(name, []byte(actual))
}

func (g *Golden) clean(s string) string {
	for _, scrub := range g.scrubs {
		s = scrub(s)
	}
	return Normalize(s)
}

// Normalize unifies line endings and drops trailing blanks on every line and
// at the end.
func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

var (
	addressRe  = regexp.MustCompile(`0x[0-9a-f]{16}`)
	uuidRe     = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	durationRe = regexp.MustCompile(`\d+(\.\d+)?(ns|us|µs|ms|s|m|h)+`)
)

// ScrubAddresses masks frame addresses.
func ScrubAddresses(s string) string { return addressRe.ReplaceAllString(s, "[ADDR]") }

// ScrubUUIDs masks session ids.
func ScrubUUIDs(s string) string { return uuidRe.ReplaceAllString(s, "[UUID]") }

// ScrubDurations masks durations such as "1.5s".
func ScrubDurations(s string) string { return durationRe.ReplaceAllString(s, "[DURATION]") }

// ScrubPID returns a scrubber masking pid as a whole number.
func ScrubPID(pid int) Scrubber {
	re := regexp.MustCompile(`\b` + strconv.Itoa(pid) + `\b`)
	return func(s string) string { return re.ReplaceAllString(s, "[PID]") }
}

// ScrubAll applies every scrubber and normalizes the result.
func ScrubAll(s string, pid int) string {
	for _, scrub := range []Scrubber{ScrubAddresses, ScrubUUIDs, ScrubDurations, ScrubPID(pid)} {
		s = scrub(s)
	}
	return Normalize(s)
}
