package cmd

import (
	"context"
	"testing"

	log "github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	ctx := context.Background()
	logger := log.New(log.NewTestWriter(t))

	tests := []struct {
		name     string
		options  []Option
		validate func(*testing.T, *Options)
	}{
		{
			name:    "empty options",
			options: []Option{},
			validate: func(t *testing.T, opts *Options) {
				require.NotNil(t, opts.CommonOptions)
				require.Nil(t, opts.Ctx)
			},
		},
		{
			name:    "with context",
			options: []Option{WithContext(ctx)},
			validate: func(t *testing.T, opts *Options) {
				require.Equal(t, ctx, opts.Ctx)
			},
		},
		{
			name:    "with logger",
			options: []Option{WithLogger(logger)},
			validate: func(t *testing.T, opts *Options) {
				require.Equal(t, logger, opts.Logger)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions(tt.options...)
			require.NotNil(t, opts)

			if tt.validate != nil {
				tt.validate(t, opts)
			}
		})
	}
}
