package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalContext is cancelled on SIGINT or SIGTERM and records which one fired,
// so commands can log why they stopped.
type SignalContext struct {
	context.Context

	cancel context.CancelFunc
	sigCh  chan os.Signal
	once   sync.Once

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext starts watching for termination signals until parent is done
// or Stop is called.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}
	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go sc.watch()
	return sc
}

func (sc *SignalContext) watch() {
	defer sc.once.Do(func() { signal.Stop(sc.sigCh) })
	select {
	case sig := <-sc.sigCh:
		sc.mu.Lock()
		sc.sig = sig
		sc.mu.Unlock()
		sc.cancel()
	case <-sc.Done():
	}
}

// Stop cancels the context and releases the signal subscription.
func (sc *SignalContext) Stop() {
	sc.cancel()
	sc.once.Do(func() { signal.Stop(sc.sigCh) })
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}
