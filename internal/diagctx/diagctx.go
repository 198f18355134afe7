// Package diagctx holds process-wide diagnostic context that every postmortem
// report reprints: short program info lines and named extra log line lists.
//
// The two maps are guarded by separate mutexes so a crash while one is being
// mutated does not block readers of the other. Mutation must happen in live
// code, never from a reporting path.
package diagctx

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
)

// ProgramInfo is a last-write-wins string map with a cached flattened form.
type ProgramInfo struct {
	mu        sync.Mutex
	values    map[string]string
	flattened string
}

// NewProgramInfo returns an empty ProgramInfo.
func NewProgramInfo() *ProgramInfo {
	return &ProgramInfo{values: make(map[string]string)}
}

// Set upserts key; an empty value deletes it. The flattened form is rebuilt
// under the same lock so readers never iterate the map.
func (p *ProgramInfo) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value == "" {
		delete(p.values, key)
	} else {
		p.values[key] = value
	}
	p.flattened = flatten(p.values)
}

// Get returns the value for key or "".
func (p *ProgramInfo) Get(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[key]
}

// Flattened returns every entry as a "key: value\n" line, keys sorted.
func (p *ProgramInfo) Flattened() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flattened
}

func flatten(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(values[k])
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Unbounded passed as maxLines emits every line.
const Unbounded = 0

// TruncationNotice ends a key's listing when lines were cut.
const TruncationNotice = "... (truncated, full diagnostics are in the report file)"

// ExtraLogInfo maps a key to a caller-owned line list. The lists are never
// copied: callers keep them alive, and unchanged, for as long as the operation
// they describe might crash.
type ExtraLogInfo struct {
	mu      sync.Mutex
	entries map[string]*[]string
}

// NewExtraLogInfo returns an empty ExtraLogInfo.
func NewExtraLogInfo() *ExtraLogInfo {
	return &ExtraLogInfo{entries: make(map[string]*[]string)}
}

// Set stores a reference to lines under key. nil or an empty list clears key.
func (e *ExtraLogInfo) Set(key string, lines *[]string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if lines == nil || len(*lines) == 0 {
		delete(e.entries, key)
		return
	}
	e.entries[key] = lines
}

// sortedKeys returns the registered keys in order. Callers hold e.mu.
func (e *ExtraLogInfo) sortedKeys() []string {
	keys := make([]string, 0, len(e.entries))
	for k := range e.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Emit writes, for each key in sorted order, a blank line, "key:", then up to
// maxLines lines (Unbounded for all). A cut listing ends with TruncationNotice.
// Write errors stop the listing for the current sink and are returned.
func (e *ExtraLogInfo) Emit(w io.Writer, maxLines int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, k := range e.sortedKeys() {
		lines := *e.entries[k]
		if err := writeStrings(w, "\n", k, ":\n"); err != nil {
			return err
		}
		limit := len(lines)
		if maxLines > Unbounded && maxLines < limit {
			limit = maxLines
		}
		for _, line := range lines[:limit] {
			if err := writeStrings(w, line, "\n"); err != nil {
				return err
			}
		}
		if limit < len(lines) {
			var num [asyncsafe.IntBufSize]byte
			if err := writeStrings(w, TruncationNotice, " [", asyncsafe.Itoa(&num, int64(len(lines)-limit)), " more]\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeStrings writes parts one at a time instead of concatenating them, so
// emitting from the fatal path does not build temporary strings.
func writeStrings(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}
