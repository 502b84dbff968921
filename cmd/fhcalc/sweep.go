package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"Firebox/internal/calc/sweep"

	"github.com/spf13/cobra"
)

func newSweepCmd(o *options) *cobra.Command {
	spec := sweep.Default()
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate evenly spaced values of one field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			defer tw.Flush()
			fmt.Fprintf(tw, "%s\tnet %%\tgross %%\tfuel %%\tuseful kJ/hr\t\n", spec.Field)
			return sweep.Run(context.Background(), o.cfg.Defaults, o.lookup, spec, func(p sweep.Point) error {
				if p.Error != "" {
					fmt.Fprintf(tw, "%g\t%s\t\t\t\t\n", p.Value, p.Error)
					return nil
				}
				_, err := fmt.Fprintf(tw, "%g\t%.2f\t%.2f\t%.2f\t%.2f\t\n", p.Value, p.Net, p.Gross, p.Fuel, p.Useful)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&spec.Field, "field", spec.Field, "field key to vary")
	cmd.Flags().Float64Var(&spec.From, "from", spec.From, "first value")
	cmd.Flags().Float64Var(&spec.To, "to", spec.To, "last value")
	cmd.Flags().IntVar(&spec.Steps, "steps", spec.Steps, "number of values")
	return cmd
}
