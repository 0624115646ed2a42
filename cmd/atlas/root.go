package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fra-atlas/atlas/pkg/extract"
)

type rootOptions struct {
	formsFile string
	verbose   bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "atlas",
		Short:        "Forest rights claim tooling",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.formsFile, "forms", "", "extraction schema file (defaults to the built-in table)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	cmd.AddCommand(
		newValidateCommand(opts),
		newExtractCommand(opts),
		newFormsCommand(opts),
	)
	return cmd
}

func (o *rootOptions) registry() (*extract.Registry, error) {
	if o.formsFile == "" {
		return extract.Default(), nil
	}
	reg, err := extract.LoadFile(o.formsFile)
	if err != nil {
		return nil, fmt.Errorf("load forms %s: %w", o.formsFile, err)
	}
	return reg, nil
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
