package depsolver

import (
	"log"
	"os"
	"time"

	"github.com/chef/depsolver/fd"
	"github.com/chef/depsolver/pool"
)

// Logger is the two-level sink Solve's driver reports its state-machine
// transitions through: Debugf gets one line per transition (TRIMMED,
// ENCODED, SOLVED(valid/invalid/none), a CULPRIT_SEARCH line per prefix
// tried, and ERROR), Infof gets exactly one line for the call's final
// outcome. The default, installed when no WithLogger option is given,
// discards everything.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}

// stderrLogger is the reference Logger, writing both levels to os.Stderr
// through a single *log.Logger with a "depsolver: " prefix -- the same
// convention cmd/depsolve uses for its own output -- distinguishing levels
// with a short tag rather than separate destinations.
type stderrLogger struct {
	l *log.Logger
}

// StderrLogger returns a Logger that writes to os.Stderr with a
// "depsolver: " prefix.
func StderrLogger() Logger {
	return stderrLogger{l: log.New(os.Stderr, "depsolver: ", 0)}
}

func (s stderrLogger) Debugf(format string, v ...interface{}) {
	s.l.Printf("debug: "+format, v...)
}

func (s stderrLogger) Infof(format string, v ...interface{}) {
	s.l.Printf("info: "+format, v...)
}

// solveConfig holds everything a SolveOption can set. Unlike
// SolveParameters in a traditional resolver, there is no required field:
// every zero value has a sensible default, filled in by newSolveConfig.
type solveConfig struct {
	timeout time.Duration
	logger  Logger
	pool    pool.Pool
	workers int
}

// SolveOption configures a Solve call. Options compose: later options in
// the argument list override earlier ones for the fields they touch.
type SolveOption func(*solveConfig)

// WithTimeout bounds the whole Solve call, including every culprit-search
// iteration, at d. A Solve that does not finish in time returns a
// TimeoutError. Zero (the default) means no timeout.
func WithTimeout(d time.Duration) SolveOption {
	return func(c *solveConfig) { c.timeout = d }
}

// WithLogger directs Solve's diagnostic output at l instead of discarding
// it.
func WithLogger(l Logger) SolveOption {
	return func(c *solveConfig) { c.logger = l }
}

// WithPool supplies a pre-built session pool, letting a caller share one
// pool across many Solve calls instead of paying worker-startup cost on
// every call. Mutually exclusive with WithWorkers; the last one given
// wins.
func WithPool(p pool.Pool) SolveOption {
	return func(c *solveConfig) { c.pool = p; c.workers = 0 }
}

// WithWorkers tells Solve to build (and tear down after the call
// returns) a pool of n concurrent fd sessions. This is the default path:
// an unconfigured Solve call behaves as though WithWorkers(1) were given.
func WithWorkers(n int) SolveOption {
	return func(c *solveConfig) { c.workers = n; c.pool = nil }
}

func newSolveConfig(opts []SolveOption) *solveConfig {
	c := &solveConfig{
		logger:  nopLogger{},
		workers: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *solveConfig) resolvePool() (pool.Pool, bool, error) {
	if c.pool != nil {
		return c.pool, false, nil
	}
	p, err := pool.New(c.workers, func() fd.Session { return fd.NewBacktracking() })
	if err != nil {
		return nil, false, &NoWorkersError{}
	}
	return p, true, nil
}
