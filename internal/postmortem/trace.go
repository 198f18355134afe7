package postmortem

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
)

// TraceTitle is the banner title of a non-fatal trace.
const TraceTitle = "stack trace"

// LogStackTrace snapshots diagnostics from live code: it writes a report file
// with the caller's stack and a resource snapshot, prints the banner, appends
// the session log at sessionLogPath when given, and forwards the report to
// session logging (crash template when fatal). It does not take the reporter
// flag, consult a debugger or run the postmortem handler.
func (r *Reporter) LogStackTrace(reason string, fatal bool, sessionLogPath string) (string, error) {
	return r.logStackTrace(1, reason, fatal, sessionLogPath)
}

func (r *Reporter) logStackTrace(skip int, reason string, fatal bool, sessionLogPath string) (string, error) {
	opts := r.options()
	prog := r.ProgramName()
	log := opts.Logger.WithSession(r.session)

	frames := stack.Capture(opts.MaxDepth, skip+1)

	f, path, err := CreateReportFile(opts.Fs, opts.Dir, opts.Prefix, prog, r.pid, opts.MaxSuffix)
	if err != nil {
		log.Error("cannot create report file", "error", err)
		return "", err
	}
	log = log.WithReport(path)

	out := &sink{w: f}
	writeHeader(out, reportHeader{
		reason: reason,
		prog:   prog,
		pid:    r.pid,
	}, r.info, r.extra, func(s *sink) {
		s.str("\nresources:\n")
		for _, l := range TakeResourceSnapshot(opts.Dir).Lines() {
			s.str(l)
			s.str("\n")
		}
	})
	var buf [1024]byte
	writeTrace(out, frames, buf[:])
	if sessionLogPath != "" {
		appendSessionLog(out, opts.Fs, sessionLogPath)
	}
	if cerr := f.Close(); out.err == nil {
		out.err = cerr
	}
	if out.err != nil {
		log.Error("writing report failed", "error", out.err)
		err = fmt.Errorf("writing report %s: %w", path, out.err)
	}
	if lerr := linkLatest(opts.Fs, latestLinkPath(opts.Dir, opts.Prefix, prog), path); lerr != nil {
		log.Debug("latest link not updated", "error", lerr)
	}

	title := TraceTitle
	if fatal {
		title = DyingTitle
	}
	var host [256]byte
	hn := hostname(host[:])
	writeBanner(&sink{w: opts.Console}, banner{
		title:  title,
		prog:   prog,
		host:   string(host[:hn]),
		reason: log.Sanitize(reason),
		path:   path,
	}, r.info, r.extra, opts.ConsoleLines)

	if serr := r.forwardSessionLog(opts, nil, path, fatal); serr != nil {
		log.Warn("session logging failed", "error", serr)
	}
	log.Info("stack trace written", "frames", len(frames))
	return path, err
}

func appendSessionLog(s *sink, fs afero.Fs, path string) {
	data, err := afero.ReadFile(fs, path)
	s.str("\nsession log ")
	s.str(path)
	s.str(":\n")
	if err != nil {
		s.str("unavailable: ")
		s.str(err.Error())
		s.str("\n")
		return
	}
	if s.err == nil {
		_, s.err = s.w.Write(data)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		s.str("\n")
	}
}
