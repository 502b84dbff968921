package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"Firebox/internal/calc/batch"
	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/report"
	"Firebox/internal/config"

	"github.com/ansel1/merry"
	"github.com/spf13/cobra"
)

// editable maps flags to the fields an operator changes between runs.
var editable = []struct {
	flag, key, usage string
}{
	{"flue-temp", "flue_gas_exit_temperature", "flue gas exit temperature, °C"},
	{"fuel-flow", "fuel_mass_flow", "fuel mass flow rate, kg/hr"},
	{"steam-flow", "steam_mass_flow", "atomizing steam mass flow rate, kg/hr"},
	{"steam-enthalpy", "steam_enthalpy", "enthalpy of steam, kJ/kg"},
}

func newRunCmd(o *options) *cobra.Command {
	var (
		sets     []string
		scenario string
		pdf      string
		flags    = make([]float64, len(editable))
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Calculate heater efficiency",
		Long: "Calculate heater efficiency for one operating point, or for every " +
			"scenario of a yaml file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSets(sets)
			if err != nil {
				return err
			}
			for i, e := range editable {
				if cmd.Flags().Changed(e.flag) {
					values[e.key] = flags[i]
				}
			}

			file := config.ScenarioFile{Scenarios: []heater.Scenario{{Name: "run", Values: map[string]float64{}}}}
			if scenario != "" {
				if file, err = config.ReadScenarios(scenario); err != nil {
					return err
				}
			}
			for i := range file.Scenarios {
				s := &file.Scenarios[i]
				if s.Values == nil {
					s.Values = map[string]float64{}
				}
				for k, v := range values {
					s.Values[k] = v
				}
			}

			items, err := o.runner().Run(context.Background(), file.Scenarios)
			if items == nil {
				return err
			}
			printItems(cmd.OutOrStdout(), items)
			if err != nil {
				return err
			}
			if pdf != "" {
				return writePDF(pdf, *items[0].Result, report.Meta{
					Project: file.Project, Author: file.Author, Notes: file.Notes,
				})
			}
			return nil
		},
	}
	for i, e := range editable {
		cmd.Flags().Float64Var(&flags[i], e.flag, 0, e.usage)
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set any field, key=value (repeatable)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "yaml scenario file")
	cmd.Flags().StringVar(&pdf, "pdf", "", "write a PDF report of the first result to this file")
	return cmd
}

func parseSets(sets []string) (map[string]float64, error) {
	values := make(map[string]float64, len(sets))
	for _, s := range sets {
		kv := strings.SplitN(s, "=", 2)
		if len(kv) != 2 {
			return nil, merry.Errorf("--set %q: expected key=value", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return nil, merry.Errorf("--set %q: %v", s, err)
		}
		values[strings.TrimSpace(kv[0])] = v
	}
	return values, nil
}

func printItems(w io.Writer, items []batch.Item) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	for _, it := range items {
		if len(items) > 1 {
			fmt.Fprintf(tw, "# %s\n", it.Name)
		}
		if it.Result == nil {
			fmt.Fprintf(tw, "error:\t%s\n", it.Error)
			continue
		}
		for _, row := range it.Rows {
			fmt.Fprintf(tw, "%s\t%.2f\t%s\n", row.Description, row.Value, row.Unit)
		}
		for _, s := range it.Result.Warnings {
			fmt.Fprintf(tw, "warning:\t%s\n", s)
		}
	}
}

func writePDF(path string, res heater.Result, meta report.Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return merry.Wrap(err)
	}
	if err := report.Write(f, res, meta); err != nil {
		f.Close()
		return err
	}
	return merry.Wrap(f.Close())
}
