package main

import (
	"context"
	"fmt"
	"os"

	"Firebox/internal/calc/importer"

	"github.com/ansel1/merry"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBatchCmd(o *options) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch in.xlsx out.xlsx",
		Short: "Evaluate every scenario row of a workbook",
		Long: "Evaluate every scenario row of a workbook. The header row holds field " +
			"keys or descriptions; results and inputs are written to the output workbook.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return merry.Wrap(err)
			}
			defer in.Close()
			items, err := importer.ReadScenarios(in)
			if err != nil {
				return err
			}

			r := o.runner()
			r.Workers = workers
			results, err := r.Run(context.Background(), items)
			if err != nil {
				log.WithError(err).Warn("some scenarios failed")
			}

			out, err := os.Create(args[1])
			if err != nil {
				return merry.Wrap(err)
			}
			if err := importer.WriteResults(out, results); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return merry.Wrap(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios written to %s\n", len(results), args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent evaluations (default: number of CPUs)")
	return cmd
}
