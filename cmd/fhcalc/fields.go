package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"Firebox/internal/auth"
	"Firebox/internal/calc/heater"

	"github.com/ansel1/merry"
	"github.com/spf13/cobra"
)

func newFieldsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List parameter keys with their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()
			for _, f := range heater.Fields() {
				mark := ""
				if f.Editable {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s%s\t%g\t%s\t%s\n", f.Key, mark, f.Value(o.cfg.Defaults), f.Unit, f.Description)
			}
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash for OPERATOR_PASSWORD_HASH",
		Long:  "Print the bcrypt hash for OPERATOR_PASSWORD_HASH. The password is read from stdin when not given.",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var pw string
			if len(args) == 1 {
				pw = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return merry.Prepend(err, "read password")
				}
				pw = strings.TrimRight(line, "\r\n")
			}
			if pw == "" {
				return merry.New("empty password")
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return merry.Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
