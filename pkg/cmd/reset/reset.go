package reset

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maxgio92/tickprof/pkg/cmd/common"
	"github.com/maxgio92/tickprof/pkg/cmd/options"
	"github.com/maxgio92/tickprof/pkg/persist"
)

const CmdName = "reset"

type Options struct {
	*options.CommonOptions
}

func NewCommand(opts *options.CommonOptions) *cobra.Command {
	o := &Options{CommonOptions: opts}
	cmd := &cobra.Command{
		Use:               CmdName,
		Short:             "Empty the history stored in a segment slot",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE:              o.Run,
	}

	return cmd
}

func (o *Options) Run(cmd *cobra.Command, _ []string) error {
	cfg, err := common.Setup(cmd, o.CommonOptions, CmdName)
	if err != nil {
		return err
	}
	store, err := common.OpenStore(cfg, o.Logger)
	if err != nil {
		return err
	}

	empty, err := persist.Encode(persist.History{})
	if err != nil {
		return err
	}
	slot := uint8(cfg.Segments.Slot)
	if err := store.Set(slot, empty); err != nil {
		return errors.Wrapf(err, "failed to reset slot %d", slot)
	}
	o.Logger.Info().Uint8("slot", slot).Msg("history reset")

	return nil
}
