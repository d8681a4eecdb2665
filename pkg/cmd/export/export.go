package export

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maxgio92/tickprof/internal/settings"
	"github.com/maxgio92/tickprof/pkg/cmd/common"
	"github.com/maxgio92/tickprof/pkg/cmd/options"
	"github.com/maxgio92/tickprof/pkg/persist"
	"github.com/maxgio92/tickprof/pkg/report"
)

const CmdName = "export"

type Options struct {
	output string
	unit   string
	scale  float64

	*options.CommonOptions
}

func NewCommand(opts *options.CommonOptions) *cobra.Command {
	o := &Options{CommonOptions: opts}
	cmd := &cobra.Command{
		Use:   CmdName,
		Short: "Export the history stored in a segment slot as a pprof profile",
		Long: fmt.Sprintf(`
%s writes every call recorded in the history as one pprof sample, located at the
function named after its call site and labeled with the tick it was recorded in.
`, CmdName),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE:              o.Run,
	}

	cmd.Flags().StringVarP(&o.output, "output", "o", settings.DefaultExportFile, "Path of the pprof file")
	cmd.Flags().StringVar(&o.unit, "unit", "microseconds", "Unit of the exported values")
	cmd.Flags().Float64Var(&o.scale, "scale", 1000, "Factor applied to the recorded samples")

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

	history, err := persist.Load(store, uint8(cfg.Segments.Slot))
	if err != nil {
		return errors.Wrapf(err, "failed to load history")
	}

	f, err := os.Create(o.output)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", o.output)
	}
	defer f.Close()

	if err := report.WritePprof(f, history, report.WithUnit(o.unit, o.scale)); err != nil {
		return err
	}
	o.Logger.Info().Str("output", o.output).Int("ticks", len(history.Data)).Msg("profile exported")

	return f.Close()
}
