/*
Package analysis implements static analyses over context-free grammars:
FIRST and FOLLOW sets, usefulness (reachability and productivity),
minimal derivation distance, cycle detection and elimination, and LL(1)
classification.

All analyses are pure functions over a grammar's current production list;
nothing is cached across mutations. Pending sequence rules are invisible
to analyses — lower them with RewriteSequences first.

Long-running fixed points accept cooperative cancellation:

    first, err := analysis.First(g, analysis.WithCancel(stop))

If the hook reports true between iterations, the analysis returns
cfg.ErrCancelled.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package analysis

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfg.analysis'.
func tracer() tracing.Trace {
	return tracing.Select("cfg.analysis")
}

// Option configures an analysis run.
type Option func(*config)

type config struct {
	cancel func() bool
}

// WithCancel installs a cooperative cancellation hook, checked between
// fixed-point iterations.
func WithCancel(cancel func() bool) Option {
	return func(c *config) {
		c.cancel = cancel
	}
}

func makeConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *config) cancelled() bool {
	return c.cancel != nil && c.cancel()
}
