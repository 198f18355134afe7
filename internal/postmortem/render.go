package postmortem

import (
	"io"

	"github.com/hugo-lorenzo-mato/postmortem/internal/asyncsafe"
	"github.com/hugo-lorenzo-mato/postmortem/internal/diagctx"
	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
	"github.com/hugo-lorenzo-mato/postmortem/internal/symbolize"
)

// TraceHeader introduces the trace section of a report file.
const TraceHeader = "stack trace:"

const dashes = "--------------------------------------------------------------------------------"

// sink writes strings to w and keeps the first error.
type sink struct {
	w   io.Writer
	err error
}

func (s *sink) str(v string) {
	if s.err == nil && v != "" {
		_, s.err = io.WriteString(s.w, v)
	}
}

func (s *sink) int(v int64) {
	var buf [asyncsafe.IntBufSize]byte
	s.str(asyncsafe.Itoa(&buf, v))
}

func (s *sink) field(name, value string) {
	if value == "" {
		return
	}
	s.str(name)
	s.str(": ")
	s.str(value)
	s.str("\n")
}

func (s *sink) rule(n int) {
	for n > 0 {
		k := min(n, len(dashes))
		s.str(dashes[:k])
		n -= k
	}
	s.str("\n")
}

// reportHeader is everything a report file holds before the trace.
type reportHeader struct {
	reason       string
	message      string
	extraMessage string
	prog         string
	pid          int
}

// writeHeader writes the report head: reason, message, program identity,
// program info, the full extra-log info, the extra message and the trace
// header.
func writeHeader(s *sink, h reportHeader, info *diagctx.ProgramInfo, extra *diagctx.ExtraLogInfo, sections ...func(*sink)) {
	s.field("reason", h.reason)
	s.field("message", h.message)
	s.field("program", h.prog)
	s.str("pid: ")
	s.int(int64(h.pid))
	s.str("\n")
	s.str(info.Flattened())
	if s.err == nil {
		s.err = extra.Emit(s.w, diagctx.Unbounded)
	}
	for _, section := range sections {
		section(s)
	}
	if h.extraMessage != "" {
		s.str("\n")
		s.str(h.extraMessage)
		s.str("\n")
	}
	s.str("\n")
	s.str(TraceHeader)
	s.str("\n")
}

// writeTrace renders frames through the active symbolicator into buf, one
// line per frame.
func writeTrace(s *sink, frames []stack.Frame, buf []byte) {
	if len(frames) == 0 {
		s.str(symbolize.NoFramesLine)
		s.str("\n")
		return
	}
	cb := symbolize.GetCallback()
	for i, f := range frames {
		n := symbolize.FormatLine(buf, i, f, cb(uintptr(f)))
		if s.err == nil {
			_, s.err = s.w.Write(buf[:n])
		}
		s.str("\n")
	}
}

// banner is the console summary of one report.
type banner struct {
	title   string
	prog    string
	host    string
	reason  string
	message string
	path    string
}

// writeBanner prints the summary framed by rules, with at most maxLines lines
// per extra-log key.
func writeBanner(s *sink, b banner, info *diagctx.ProgramInfo, extra *diagctx.ExtraLogInfo, maxLines int) {
	width := len("------ '") + len(b.prog) + len("' ") + len(b.title) + len(" ------")
	s.str("\n------ '")
	s.str(b.prog)
	s.str("' ")
	s.str(b.title)
	s.str(" ------\n")
	s.str(info.Flattened())
	s.field("reason", b.reason)
	s.field("message", b.message)
	if b.path != "" {
		s.str("stack can be found in ")
		s.str(b.host)
		s.str(":")
		s.str(b.path)
		s.str("\n")
	} else {
		s.str("no report file could be written\n")
	}
	if s.err == nil {
		s.err = extra.Emit(s.w, maxLines)
	}
	s.rule(width)
}
