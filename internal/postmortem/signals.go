package postmortem

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// NotifySignals reports delivery of any of sigs as fatal and exits with
// 128+signo. With no sigs it watches os.Interrupt and SIGTERM. The returned
// function stops watching.
func (r *Reporter) NotifySignals(ctx context.Context, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
		case sig := <-ch:
			r.handleSignal(sig)
		}
	}()

	return func() {
		signal.Stop(ch)
		cancel()
		wg.Wait()
	}
}

func (r *Reporter) handleSignal(sig os.Signal) {
	_, _ = r.ReportFatal("signal", sig.String(), "")
	code := 1
	if s, ok := sig.(syscall.Signal); ok {
		code = 128 + int(s)
	}
	r.exit(code)
}
