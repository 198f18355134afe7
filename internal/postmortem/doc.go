// Package postmortem produces diagnostic reports for a dying process.
//
// A fatal report runs at most once at a time per Reporter: the first caller
// to set the reporter flag writes a uniquely named report file holding the
// reason, context and symbolic stack trace, prints a short banner to stderr,
// and hands the file to the registered postmortem handler under a timeout.
// Concurrent callers wait for it to finish and return without reporting.
//
// The fatal path writes to the console with raw writes and never calls the
// structured logger. Live code can snapshot the same diagnostics with
// LogStackTrace, which skips the reporter flag, the debugger hand-off and the
// postmortem handler.
//
// Context stores, registered commands and the reporter flag live on a
// Reporter. The package-level functions act on Default, the process-wide
// instance. Register handlers and context during startup; callbacks and
// commands are read without locks while reporting.
package postmortem
