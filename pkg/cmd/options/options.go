package options

import (
	"context"

	log "github.com/rs/zerolog"
)

// CommonOptions are shared by the root command and its subcommands.
type CommonOptions struct {
	Ctx    context.Context
	Logger log.Logger

	LogLevel   string
	ConfigPath string
	Dir        string
	Slot       int
}
