package kplan

import (
	"github.com/go-logr/logr"
)

// Option is a function that configures a Plan
type Option func(*Plan)

// WithLogr sets the logger for pruning and preparation diagnostics
var WithLogr = func(log logr.Logger) Option {
	return func(p *Plan) {
		p.log = log
	}
}

// WithLoopIsolator replaces the default loop isolator used by Prepare
var WithLoopIsolator = func(isolator LoopIsolator) Option {
	return func(p *Plan) {
		p.isolator = isolator
	}
}
