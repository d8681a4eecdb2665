package cmd

import (
	"context"

	log "github.com/rs/zerolog"

	"github.com/maxgio92/tickprof/pkg/cmd/options"
)

type Options struct {
	*options.CommonOptions
}

type Option func(o *Options)

func NewOptions(opts ...Option) *Options {
	o := new(Options)
	o.CommonOptions = new(options.CommonOptions)

	for _, f := range opts {
		f(o)
	}

	return o
}

func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Ctx = ctx
	}
}

func WithLogger(logger log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
