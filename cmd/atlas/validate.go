package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fra-atlas/atlas/pkg/quality"
	"github.com/fra-atlas/atlas/pkg/tabular"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	var datasetType string

	cmd := &cobra.Command{
		Use:   "validate <file.csv|file.xlsx>",
		Short: "Score a tabular dataset and list its quality issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			format, err := tabular.FormatFromName(path)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			ds, err := tabular.Parse(f, format)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
			}

			report, err := quality.Validate(ds, datasetType)
			if err != nil {
				return err
			}

			root.logger(cmd).Info(
				"dataset validated",
				"file", path,
				"rows", len(ds.Rows),
				"score", report.ConfidenceScore,
			)
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&datasetType, "type", "t", "", "dataset type recorded in the report")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
