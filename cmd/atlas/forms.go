package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFormsCommand(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "forms",
		Short: "List the registered form schemas and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := root.registry()
			if err != nil {
				return err
			}

			if asJSON {
				out := make(map[string][]string)
				for _, s := range reg.Schemas() {
					out[string(s.Form)] = s.Fields()
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FORM\tFIELDS\tNAMES")
			for _, s := range reg.Schemas() {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Form, s.Len(), strings.Join(s.Fields(), ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
