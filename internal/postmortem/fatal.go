package postmortem

import (
	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
)

// DyingTitle is the banner title of a fatal report.
const DyingTitle = "is dying"

// ReportFatal writes a full postmortem report and runs the postmortem handler
// on it. It returns the report path, or "" when another report was already in
// flight (that report is taken as final and this one is dropped) or no file
// could be created.
//
// If a debugger is attached, control is handed to it and the process exits
// without writing a report. ReportFatal never panics; failures degrade the
// report and are described on the console.
func (r *Reporter) ReportFatal(reason, message, extraMessage string) (string, error) {
	return r.reportFatal(1, reason, message, extraMessage)
}

func (r *Reporter) reportFatal(skip int, reason, message, extraMessage string) (path string, err error) {
	if !r.acquire() {
		return "", nil
	}
	defer r.release()
	defer r.recoverInternal()

	if r.afterAcquire != nil {
		r.afterAcquire()
	}

	prog := r.ProgramName()

	if r.debuggerAttached() {
		r.trapDebugger()
		r.exit(TrapExitStatus)
		return "", nil
	}

	opts := r.options()
	con := &sink{w: opts.Console}

	// +1 for reportFatal itself.
	n := stack.CaptureInto(opts.frames, skip+1)

	f, path, err := CreateReportFile(opts.Fs, opts.Dir, opts.Prefix, prog, r.pid, opts.MaxSuffix)
	if err != nil {
		con.str("postmortem: ")
		con.str(err.Error())
		con.str("\n")
		path = ""
	} else {
		out := &sink{w: f}
		writeHeader(out, reportHeader{
			reason:       reason,
			message:      message,
			extraMessage: extraMessage,
			prog:         prog,
			pid:          r.pid,
		}, r.info, r.extra)
		writeTrace(out, opts.frames[:n], r.line[:])
		if cerr := f.Close(); out.err == nil {
			out.err = cerr
		}
		if out.err != nil {
			con.str("postmortem: writing report: ")
			con.str(out.err.Error())
			con.str("\n")
		}
		_ = linkLatest(opts.Fs, latestLinkPath(opts.Dir, opts.Prefix, prog), path)
	}

	var host [256]byte
	hn := hostname(host[:])
	writeBanner(con, banner{
		title:   DyingTitle,
		prog:    prog,
		host:    string(host[:hn]),
		reason:  reason,
		message: message,
		path:    path,
	}, r.info, r.extra, opts.ConsoleLines)

	if path == "" {
		return "", err
	}
	if r.runHandler(opts, con, path) {
		_ = r.forwardSessionLog(opts, con, path, true)
	}
	return path, err
}

// recoverInternal keeps a failure inside the reporter from escaping into the
// dying process.
func (r *Reporter) recoverInternal() {
	if v := recover(); v != nil {
		s := &sink{w: r.options().Console}
		s.str("postmortem: internal failure while reporting\n")
	}
}
