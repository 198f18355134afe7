package logging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// Attribute keys set by the Logger helpers. The console handler prints
// them first, in this order, so a report path is easy to spot.
const (
	KeySession = "session"
	KeyPID     = "pid"
	KeyCommand = "command"
	KeyReport  = "report"
)

var leadingKeys = []string{KeyReport, KeyPID, KeyCommand}

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// ConsoleHandler writes one compact line per record for interactive use:
//
//	15:04:05 WRN handler timed out report=/tmp/postmortem_app.42 pid=812
type ConsoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	color  bool
	attrs  []slog.Attr
	prefix string
}

// NewConsoleHandler creates a console handler writing to w.
func NewConsoleHandler(w io.Writer, level slog.Leveler, color bool) *ConsoleHandler {
	return &ConsoleHandler{mu: &sync.Mutex{}, w: w, level: level, color: color}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	all := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	all = append(all, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, h.qualify(a))
		return true
	})

	var b strings.Builder
	if !r.Time.IsZero() {
		h.paint(&b, ansiGray, r.Time.Format("15:04:05"))
		b.WriteByte(' ')
	}
	h.paint(&b, levelColor(r.Level), levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, key := range leadingKeys {
		for _, a := range all {
			if a.Key == key {
				h.writeAttr(&b, a, true)
			}
		}
	}
	for _, a := range all {
		if !isLeading(a.Key) {
			h.writeAttr(&b, a, false)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return &c
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

func (h *ConsoleHandler) qualify(a slog.Attr) slog.Attr {
	if h.prefix != "" {
		a.Key = h.prefix + a.Key
	}
	return a
}

func (h *ConsoleHandler) writeAttr(b *strings.Builder, a slog.Attr, leading bool) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, g := range v.Group() {
			g.Key = a.Key + "." + g.Key
			h.writeAttr(b, g, false)
		}
		return
	}
	if a.Key == "" {
		return
	}
	b.WriteByte(' ')
	if leading {
		h.paint(b, ansiBold, a.Key)
	} else {
		h.paint(b, ansiCyan, a.Key)
	}
	b.WriteByte('=')
	b.WriteString(quoteIfNeeded(v.String()))
}

func (h *ConsoleHandler) paint(b *strings.Builder, color, s string) {
	if !h.color {
		b.WriteString(s)
		return
	}
	b.WriteString(color)
	b.WriteString(s)
	b.WriteString(ansiReset)
}

func isLeading(key string) bool {
	for _, k := range leadingKeys {
		if k == key {
			return true
		}
	}
	return false
}

func levelTag(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DBG"
	case l < slog.LevelWarn:
		return "INF"
	case l < slog.LevelError:
		return "WRN"
	default:
		return "ERR"
	}
}

func levelColor(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return ansiGray
	case l < slog.LevelWarn:
		return ansiBlue
	case l < slog.LevelError:
		return ansiYellow
	default:
		return ansiRed
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
