package postmortem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/postmortem/internal/core"
	"github.com/hugo-lorenzo-mato/postmortem/internal/diagctx"
	"github.com/hugo-lorenzo-mato/postmortem/internal/stack"
	"github.com/hugo-lorenzo-mato/postmortem/internal/supervise"
)

const testDir = "/reports"

type spawnCall struct {
	path string
	argv []string
	env  []string
}

type instantChild struct{ pid int }

func (c instantChild) Pid() int { return c.pid }
func (c instantChild) Wait() (supervise.ExitStatus, error) {
	return supervise.ExitStatus{Exited: true}, nil
}
func (c instantChild) Kill() error { return nil }

// recordingSpawner starts nothing; every child exits 0 at once.
type recordingSpawner struct {
	mu    sync.Mutex
	calls []spawnCall
	err   error
}

func (s *recordingSpawner) Spawn(path string, argv []string, opts supervise.SpawnOptions) (supervise.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.calls = append(s.calls, spawnCall{path: path, argv: append([]string(nil), argv...), env: opts.Env})
	return instantChild{pid: 1000 + len(s.calls)}, nil
}

func (s *recordingSpawner) Calls() []spawnCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]spawnCall(nil), s.calls...)
}

type testReporter struct {
	*Reporter
	fs       afero.Fs
	console  *bytes.Buffer
	spawner  *recordingSpawner
	env      map[string]string
	exitCode atomic.Int32
}

func newTestReporter(t *testing.T) *testReporter {
	t.Helper()
	tr := &testReporter{
		fs:      afero.NewMemMapFs(),
		console: &bytes.Buffer{},
		spawner: &recordingSpawner{},
		env:     map[string]string{},
	}
	tr.exitCode.Store(-1)
	tr.Reporter = New(Options{
		Fs:      tr.fs,
		Dir:     testDir,
		Console: tr.console,
		Spawner: tr.spawner,
	})
	tr.SetProgramNameForErrors("app")
	tr.lookupEnv = func(name string) (string, bool) {
		v, ok := tr.env[name]
		return v, ok
	}
	tr.debuggerAttached = func() bool { return false }
	tr.trapDebugger = func() { t.Error("debugger trap without a debugger") }
	tr.exit = func(code int) { tr.exitCode.Store(int32(code)) }
	return tr
}

func (tr *testReporter) read(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(tr.fs, path)
	require.NoError(t, err)
	return string(data)
}

func (tr *testReporter) reportFiles(t *testing.T) []string {
	t.Helper()
	entries, err := afero.ReadDir(tr.fs, testDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCreateReportFile_SuffixOnCollision(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()

	f1, p1, err := CreateReportFile(fs, testDir, "postmortem", "app", 4242, 100)
	require.NoError(t, err)
	require.NoError(t, f1.Close())
	f2, p2, err := CreateReportFile(fs, testDir, "postmortem", "app", 4242, 100)
	require.NoError(t, err)
	require.NoError(t, f2.Close())

	assert.Equal(t, filepath.Join(testDir, "postmortem_app.4242"), p1)
	assert.Equal(t, p1+".1", p2)
	for _, p := range []string{p1, p2} {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}
}

func TestCreateReportFile_NameSpaceExhausted(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()

	for i := 0; i <= 2; i++ {
		f, _, err := CreateReportFile(fs, testDir, "pm", "app", 1, 2)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}
	_, path, err := CreateReportFile(fs, testDir, "pm", "app", 1, 2)
	require.Error(t, err)
	assert.Empty(t, path)
	assert.True(t, core.IsCategory(err, core.ErrCatResource))
}

func TestCreateReportFile_OwnerOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	f, path, err := CreateReportFile(afero.NewOsFs(), dir, "pm", "app", 7, 10)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestReportFatal_WritesReportAndBanner(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	tr.SetProgramInfo("version", "1.2.3")
	lines := []string{"l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9", "l10"}
	tr.SetExtraLogInfo("last queries", &lines)

	path, err := tr.ReportFatal("segmentation violation", "null deref", "while loading tile 7")
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.Equal(t, filepath.Join(testDir, "postmortem_app."+strconv.Itoa(os.Getpid())), path)

	report := tr.read(t, path)
	assert.Contains(t, report, "reason: segmentation violation\n")
	assert.Contains(t, report, "message: null deref\n")
	assert.Contains(t, report, "version: 1.2.3\n")
	assert.Contains(t, report, "session: "+tr.Session()+"\n")
	assert.Contains(t, report, "l10\n", "report files get the full extra log")
	assert.NotContains(t, report, diagctx.TruncationNotice)
	assert.Contains(t, report, "while loading tile 7\n")
	assert.Contains(t, report, "\n"+TraceHeader+"\n #0")
	assert.Less(t, strings.Index(report, "while loading tile 7"), strings.Index(report, TraceHeader))
	assert.Contains(t, report, "TestReportFatal_WritesReportAndBanner")

	console := tr.console.String()
	assert.Contains(t, console, "------ 'app' is dying ------\n")
	assert.Contains(t, console, "version: 1.2.3\n")
	assert.Contains(t, console, "reason: segmentation violation\n")
	assert.Contains(t, console, "stack can be found in ")
	assert.Contains(t, console, ":"+path+"\n")
	assert.Contains(t, console, "l3\n")
	assert.NotContains(t, console, "l4\n")
	assert.Contains(t, console, diagctx.TruncationNotice)
	assert.NotContains(t, console, "while loading tile 7", "the extra message stays in the file")

	assert.Empty(t, tr.spawner.Calls(), "no handler registered")
	assert.Zero(t, tr.Dropped())
}

func TestReportFatal_AtMostOneReporter(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	const workers = 8

	// The winner holds the flag until every other caller is spinning.
	tr.afterAcquire = func() {
		assert.Eventually(t, func() bool { return tr.Dropped() == workers-1 },
			5*time.Second, time.Millisecond)
	}

	var produced atomic.Int32
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			path, err := tr.ReportFatal("crash", "worker", "")
			if path != "" {
				produced.Add(1)
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), produced.Load())
	assert.Equal(t, int64(workers-1), tr.Dropped())
	assert.Len(t, tr.reportFiles(t), 1)
	assert.Equal(t, 1, strings.Count(tr.console.String(), "is dying"))
}

func TestReportFatal_DebuggerTakesOver(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	var trapped atomic.Bool
	tr.debuggerAttached = func() bool { return true }
	tr.trapDebugger = func() { trapped.Store(true) }
	require.NoError(t, tr.SetPostmortemHandler("/bin/handler", nil))

	path, err := tr.ReportFatal("abort", "", "")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, trapped.Load())
	assert.Equal(t, int32(TrapExitStatus), tr.exitCode.Load())
	assert.Empty(t, tr.reportFiles(t))
	assert.Empty(t, tr.spawner.Calls())
	assert.Empty(t, tr.console.String())
}

func TestReportFatal_RunsHandlerThenSessionLog(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	require.NoError(t, tr.SetPostmortemHandler("/bin/handler", []string{"$cmd", "-p", "$pid", "$log", "$pidx"}))
	require.NoError(t, tr.SetSessionLogHandler("/bin/session", nil, []string{"$cmd", "$pid", "$prog", "$stack", "$session"}))
	tr.sessionLogging.Store(true)

	path, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)

	pid := strconv.Itoa(os.Getpid())
	calls := tr.spawner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/bin/handler", calls[0].path)
	assert.Equal(t, []string{"/bin/handler", "-p", pid, path, "$pidx"}, calls[0].argv)
	assert.Equal(t, "/bin/session", calls[1].path)
	assert.Equal(t, []string{"/bin/session", pid, "app", path, tr.Session()}, calls[1].argv)
}

func TestReportFatal_ChildrenGetEnvironmentSnapshot(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	env := []string{"PATH=/usr/bin", "POSTMORTEM_TEST=1"}
	tr.environ = func() []string { return env }
	require.NoError(t, tr.SetPostmortemHandler("/bin/handler", nil))
	require.NoError(t, tr.SetSessionLogHandler("/bin/session", nil, nil))
	tr.sessionLogging.Store(true)

	_, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)

	calls := tr.spawner.Calls()
	require.Len(t, calls, 2)
	for _, c := range calls {
		assert.Equal(t, env, c.env, c.path)
	}
}

func TestReportFatal_NoHandlerNoSessionLog(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	require.NoError(t, tr.SetSessionLogHandler("/bin/session", nil, nil))
	tr.sessionLogging.Store(true)

	_, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)
	assert.Empty(t, tr.spawner.Calls())
}

func TestReportFatal_HandlerEnvOverride(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	tr.env[HandlerEnv] = "/opt/override"

	path, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)

	calls := tr.spawner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/opt/override", calls[0].path)
	assert.Equal(t, []string{"/opt/override", strconv.Itoa(os.Getpid()), path}, calls[0].argv)
}

func TestReportFatal_HandlerSpawnFailureDegrades(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	tr.spawner.err = core.ErrSpawn("/bin/handler", errors.New("EAGAIN"))
	require.NoError(t, tr.SetPostmortemHandler("/bin/handler", nil))
	require.NoError(t, tr.SetSessionLogHandler("/bin/session", nil, nil))
	tr.sessionLogging.Store(true)

	path, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Contains(t, tr.console.String(), "postmortem: handler /bin/handler: ")
}

func TestReportFatal_NoReportFile(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	opts := *tr.options()
	opts.Fs = afero.NewReadOnlyFs(afero.NewMemMapFs())
	tr.Configure(opts)
	require.NoError(t, tr.SetPostmortemHandler("/bin/handler", nil))

	path, err := tr.ReportFatal("crash", "", "")
	require.Error(t, err)
	assert.Empty(t, path)
	assert.Contains(t, tr.console.String(), "no report file could be written")
	assert.Empty(t, tr.spawner.Calls(), "the handler needs a report to work on")
}

func TestReportFatal_RespectsMaxDepth(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	opts := *tr.options()
	opts.MaxDepth = 1
	tr.Configure(opts)

	path, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)
	report := tr.read(t, path)
	assert.Equal(t, 1, strings.Count(report, " #"))
}

func TestConfigure_ResizesCaptureBuffer(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	before := tr.options()
	require.Len(t, before.frames, before.MaxDepth)

	opts := *before
	opts.MaxDepth = 3
	tr.Configure(opts)

	after := tr.options()
	assert.Len(t, after.frames, 3)
	assert.Len(t, before.frames, stack.DefaultMaxDepth, "the previous options keep their own buffer")

	path, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)
	assert.LessOrEqual(t, strings.Count(tr.read(t, path), " #"), 3)
}

func TestLogStackTrace(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	require.NoError(t, tr.SetPostmortemHandler("/bin/handler", nil))
	require.NoError(t, afero.WriteFile(tr.fs, "/session.log", []byte("user opened file\nuser saved"), 0o600))

	path, err := tr.LogStackTrace("slow frame", false, "/session.log")
	require.NoError(t, err)

	report := tr.read(t, path)
	assert.Contains(t, report, "reason: slow frame\n")
	assert.Contains(t, report, "\nresources:\ngoroutines: ")
	assert.Contains(t, report, "TestLogStackTrace")
	assert.Contains(t, report, "session log /session.log:\nuser opened file\nuser saved\n")
	assert.Contains(t, tr.console.String(), "------ 'app' stack trace ------\n")
	assert.Empty(t, tr.spawner.Calls(), "the postmortem handler is for fatal reports only")
	assert.Zero(t, tr.Dropped())
}

func TestLogStackTrace_ForwardsToSessionLog(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	require.NoError(t, tr.SetSessionLogHandler("/bin/session",
		[]string{"$cmd", "live", "$stack"}, []string{"$cmd", "crash", "$stack"}))
	tr.EnableSessionLogging()

	live, err := tr.LogStackTrace("checkpoint", false, "")
	require.NoError(t, err)
	crash, err := tr.LogStackTrace("about to abort", true, "")
	require.NoError(t, err)

	calls := tr.spawner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"/bin/session", "live", live}, calls[0].argv)
	assert.Equal(t, []string{"/bin/session", "crash", crash}, calls[1].argv)
	assert.Contains(t, tr.console.String(), "------ 'app' is dying ------\n")
}

func TestLogStackTrace_MissingSessionLog(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)

	path, err := tr.LogStackTrace("x", false, "/nope.log")
	require.NoError(t, err)
	assert.Contains(t, tr.read(t, path), "session log /nope.log:\nunavailable: ")
}

func TestLogSessionInfo(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	require.NoError(t, tr.SetSessionLogHandler("/bin/session", nil, nil))

	require.NoError(t, tr.LogSessionInfo(""))
	assert.Empty(t, tr.spawner.Calls(), "disabled until EnableSessionLogging")

	tr.sessionLogging.Store(true)
	require.NoError(t, tr.LogSessionInfo(""))
	require.NoError(t, tr.LogSessionInfo("/tmp/report"))

	pid := strconv.Itoa(os.Getpid())
	calls := tr.spawner.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[0].argv, 4)
	assert.Equal(t, pid, calls[0].argv[1])
	assert.Equal(t, "app", calls[0].argv[3])
	assert.Equal(t, "/tmp/report", calls[1].argv[4])
}

func TestLogSessionInfo_EnvOverride(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	tr.sessionLogging.Store(true)
	tr.env[SessionLogEnv] = "/opt/session"

	require.NoError(t, tr.LogSessionInfo(""))
	calls := tr.spawner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/opt/session", calls[0].path)
}

func TestSetHandlers_RejectOversizedTemplates(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	long := make([]string, supervise.MaxArgs)
	for i := range long {
		long[i] = "a"
	}

	err := tr.SetPostmortemHandler("/bin/h", long)
	assert.True(t, core.IsCategory(err, core.ErrCatOverflow))
	err = tr.SetSessionLogHandler("/bin/s", nil, long)
	assert.True(t, core.IsCategory(err, core.ErrCatOverflow))
	err = tr.SetPostmortemHandler("/bin/h", []string{})
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))

	require.NoError(t, tr.SetPostmortemHandler("/bin/h", long[:supervise.MaxArgs-1]))
	require.NoError(t, tr.SetPostmortemHandler("", nil))
	assert.Nil(t, tr.handler.Load())
}

func TestSetPostmortemHandler_CopiesTemplate(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)
	args := []string{"$cmd", "$log"}
	require.NoError(t, tr.SetPostmortemHandler("/bin/h", args))
	args[1] = "changed"

	path, err := tr.ReportFatal("crash", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/h", path}, tr.spawner.Calls()[0].argv)
}

func TestProgramInfo(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)

	tr.SetProgramInfo("build", "abc")
	assert.Equal(t, "abc", tr.GetProgramInfo("build"))
	tr.SetProgramInfo("build", "")
	assert.Empty(t, tr.GetProgramInfo("build"))
	assert.Equal(t, tr.Session(), tr.GetProgramInfo(SessionInfoKey))
}

func TestProgramName(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)

	assert.Equal(t, "app", tr.ProgramName())
	tr.SetProgramNameForErrors(`C:\tools\viewer.exe`)
	if os.PathSeparator == '\\' {
		assert.Equal(t, "viewer", tr.ProgramName())
	}
	tr.SetProgramNameForErrors("/usr/bin/viewer")
	assert.Equal(t, "viewer", tr.ProgramName())
	tr.SetProgramNameForErrors("")
	assert.Equal(t, diagctx.ProgramName(), tr.ProgramName())
}

func TestGetStackTrace(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)

	lines := tr.GetStackTrace(4)
	require.NotEmpty(t, lines)
	assert.LessOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], " #0 "))
	assert.Contains(t, lines[0], "TestGetStackTrace")
}

func TestProgressReporter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	progress := progressReporter(&buf)

	for s := 1; s <= 11; s++ {
		progress(time.Duration(s) * time.Second)
	}
	assert.Equal(t,
		"waiting for postmortem handler (5s)\nwaiting for postmortem handler (10s)\n",
		buf.String())
}

func TestTracerPid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
		want   int
	}{
		{"not traced", "Name:\tapp\nState:\tR\nTracerPid:\t0\nUid:\t0\n", 0},
		{"traced", "Name:\tapp\nTracerPid:\t4321\n", 4321},
		{"missing", "Name:\tapp\n", 0},
		{"last line without newline", "Name:\tapp\nTracerPid:  77", 77},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tracerPid([]byte(tt.status)), tt.name)
	}
}

func TestLatestReport_FallsBackToNewest(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"pm_app.10", "pm_app.10.1", "pm_app.11", "pm_other.12"} {
		p := filepath.Join(testDir, name)
		require.NoError(t, afero.WriteFile(fs, p, []byte(name), 0o600))
		require.NoError(t, fs.Chtimes(p, base, base.Add(time.Duration(i)*time.Minute)))
	}

	path, err := LatestReport(fs, testDir, "pm", "app")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(testDir, "pm_app.11"), path)

	_, err = LatestReport(fs, testDir, "pm", "missing")
	require.Error(t, err)
}

func TestLatestReport_IgnoresDottedProgramNames(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	base := time.Now().Add(-time.Hour)
	names := []string{"postmortem_my.100", "postmortem_my.app.200", "postmortem_my.app.200.1", "postmortem_my.7z"}
	for i, name := range names {
		p := filepath.Join(testDir, name)
		require.NoError(t, afero.WriteFile(fs, p, []byte(name), 0o600))
		require.NoError(t, fs.Chtimes(p, base, base.Add(time.Duration(i)*time.Minute)))
	}

	path, err := LatestReport(fs, testDir, "postmortem", "my")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(testDir, "postmortem_my.100"), path)

	path, err = LatestReport(fs, testDir, "postmortem", "my.app")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(testDir, "postmortem_my.app.200.1"), path)
}

func TestIsReportTail(t *testing.T) {
	t.Parallel()
	tests := map[string]bool{
		"4242":     true,
		"4242.1":   true,
		"4242.":    false,
		"":         false,
		"latest":   false,
		"app.4242": false,
		"42.1.2":   false,
	}
	for tail, want := range tests {
		assert.Equal(t, want, isReportTail(tail), tail)
	}
}

func TestRecover_ReportsAndRepanics(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)

	assert.PanicsWithValue(t, "boom", func() {
		defer tr.Recover()
		panic("boom")
	})

	files := tr.reportFiles(t)
	require.Len(t, files, 1)
	report := tr.read(t, filepath.Join(testDir, files[0]))
	assert.Contains(t, report, "reason: panic\nmessage: boom\n")
	assert.Contains(t, report, "TestRecover_ReportsAndRepanics")
}

func TestRecoverAndReturn(t *testing.T) {
	t.Parallel()
	tr := newTestReporter(t)

	run := func() (err error) {
		defer tr.RecoverAndReturn(&err)
		panic(errors.New("bad state"))
	}
	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: bad state (report: "+testDir)
	assert.Len(t, tr.reportFiles(t), 1)

	ok := func() (err error) {
		defer tr.RecoverAndReturn(&err)
		return nil
	}
	assert.NoError(t, ok())
}

func TestExitHooks(t *testing.T) {
	resetExitHooks()
	t.Cleanup(resetExitHooks)

	var order []int
	RegisterExitHook(func() { order = append(order, 1) })
	RegisterExitHook(func() { panic("hook failure") })
	RegisterExitHook(func() { order = append(order, 3) })

	code := -1
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = os.Exit })

	Exit(3)
	RunExitHooks()
	assert.Equal(t, []int{3, 1}, order)
	assert.Equal(t, 3, code)
}

func TestEnableSessionLogging_InstallsHookOnce(t *testing.T) {
	resetExitHooks()
	t.Cleanup(resetExitHooks)
	tr := newTestReporter(t)
	require.NoError(t, tr.SetSessionLogHandler("/bin/session", nil, nil))

	tr.EnableSessionLogging()
	tr.EnableSessionLogging()
	assert.True(t, tr.SessionLoggingEnabled())

	RunExitHooks()
	calls := tr.spawner.Calls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].argv, len(DefaultSessionLogArgs))
}

func TestDefault(t *testing.T) {
	t.Parallel()
	r := Default()
	require.NotNil(t, r)
	assert.Same(t, r, Default())
	assert.NotEmpty(t, r.Session())
}
