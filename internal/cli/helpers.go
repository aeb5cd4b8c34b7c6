package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/moedit/internal/logging"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/plan"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger from a level name.
// Unknown levels fall back to info.
func CreateLogger(level string) *slog.Logger {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return logging.New(lvl)
}

// Describe turns an edit failure into a one-line message for the terminal.
// Missing blocks and anchors are reported as "not found" with the failing
// segment or statement.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	prefix := ""
	var stepErr *plan.StepError
	if errors.As(err, &stepErr) {
		prefix = fmt.Sprintf("step %d (%s): ", stepErr.Index+1, stepErr.Op)
	}

	switch target, ok := domain.FailedTarget(err); {
	case ok && domain.IsNotFound(err):
		return fmt.Sprintf("%snot found: %s", prefix, target)
	case ok && errors.Is(err, domain.ErrAmbiguous):
		return fmt.Sprintf("%sambiguous: %s", prefix, target)
	default:
		return err.Error()
	}
}
