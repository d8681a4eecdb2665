package show

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maxgio92/tickprof/internal/settings"
	"github.com/maxgio92/tickprof/pkg/cmd/common"
	"github.com/maxgio92/tickprof/pkg/cmd/options"
	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/report"
)

const CmdName = "show"

type Options struct {
	*options.CommonOptions
}

func NewCommand(opts *options.CommonOptions) *cobra.Command {
	o := &Options{CommonOptions: opts}
	cmd := &cobra.Command{
		Use:               CmdName,
		Short:             fmt.Sprintf("Print the %s history stored in a segment slot as JSON", settings.CmdName),
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

	slot := uint8(cfg.Segments.Slot)
	history, err := persist.Load(store, slot)
	if err != nil {
		return errors.Wrapf(err, "failed to load history")
	}

	return report.NewReport(
		report.WithReportSlot(slot),
		report.WithReportHistory(history),
	).WriteReport(cmd.OutOrStdout())
}
