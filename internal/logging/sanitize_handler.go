package logging

import (
	"context"
	"log/slog"
)

// SanitizingHandler redacts credentials from the message and from every
// string, error and stringer attribute before delegating to next.
type SanitizingHandler struct {
	next slog.Handler
	s    *Sanitizer
}

// NewSanitizingHandler wraps next.
func NewSanitizingHandler(next slog.Handler, s *Sanitizer) *SanitizingHandler {
	return &SanitizingHandler{next: next, s: s}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.s.Sanitize(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.clean(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = h.clean(a)
	}
	return &SanitizingHandler{next: h.next.WithAttrs(cleaned), s: h.s}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name), s: h.s}
}

func (h *SanitizingHandler) clean(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.s.Sanitize(v.String()))
	case slog.KindGroup:
		group := v.Group()
		cleaned := make([]slog.Attr, len(group))
		for i, g := range group {
			cleaned[i] = h.clean(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cleaned...)}
	case slog.KindAny:
		// Errors and stringers usually embed command lines.
		switch x := v.Any().(type) {
		case error:
			return slog.String(a.Key, h.s.Sanitize(x.Error()))
		case interface{ String() string }:
			return slog.String(a.Key, h.s.Sanitize(x.String()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
