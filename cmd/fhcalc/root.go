package main

import (
	"Firebox/internal/calc/batch"
	"Firebox/internal/calc/psychro"
	"Firebox/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	psychro    string
	fixedPa    float64

	cfg    config.Config
	lookup psychro.Lookup
}

func (o *options) runner() batch.Runner {
	return batch.Runner{Base: o.cfg.Defaults, Lookup: o.lookup}
}

// NewRootCmd builds the fhcalc command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "fhcalc",
		Short: "Fired heater thermal efficiency by the API 560 direct method.",
		Long: `Fired heater thermal efficiency by the API 560 direct method.
Parameters start from the [defaults] of the configuration file and are
overridden per run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.startup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&o.configFile, "config", config.DefaultPath, "configuration file location")
	root.PersistentFlags().StringVar(&o.psychro, "psychrometrics", "",
		"saturation pressure method (sonntag, buck or fixed), overrides the configuration file")
	root.PersistentFlags().Float64Var(&o.fixedPa, "psat", 0, "saturation pressure in Pa for the fixed method")

	root.AddCommand(newRunCmd(o), newBatchCmd(o), newSweepCmd(o), newFieldsCmd(o), newHashPasswordCmd())
	return root
}

func (o *options) startup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("psychrometrics") {
		cfg.Psychrometrics.Method = o.psychro
	}
	if cmd.Flags().Changed("psat") {
		cfg.Psychrometrics.FixedPa = o.fixedPa
	}
	lookup, err := cfg.Lookup()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.Server.Level())
	o.cfg, o.lookup = cfg, lookup
	return nil
}
