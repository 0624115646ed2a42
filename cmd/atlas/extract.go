package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/fra-atlas/atlas/pkg/extract"
	"github.com/fra-atlas/atlas/pkg/ocr"
)

func newExtractCommand(root *rootOptions) *cobra.Command {
	var (
		language string
		form     string
	)

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Classify a claim form and extract its fields",
		Long: "Runs the extraction pipeline over a text file. Scanned images and PDFs\n" +
			"are recognized with the local tesseract binary first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := root.registry()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			text := string(data)
			if ct := http.DetectContentType(data); ocr.Supported(ct) {
				text, err = recognize(cmd, root, data, ct, language)
				if err != nil {
					return err
				}
			}

			result, err := reg.Process(text, extract.Options{Language: language, FormType: form})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "declared language (english, hindi, mixed)")
	cmd.Flags().StringVarP(&form, "form", "f", "", "declared form type (FORM_A, FORM_B, FORM_C)")
	return cmd
}

func recognize(cmd *cobra.Command, root *rootOptions, data []byte, contentType, language string) (string, error) {
	lang, err := extract.ParseLanguage(language)
	if err != nil {
		return "", err
	}

	cfg := ocr.Config{}
	if err := cfg.Finalize(nil); err != nil {
		return "", fmt.Errorf("ocr config: %w", err)
	}

	engine := ocr.New(&cfg, nil, root.logger(cmd))
	res, err := engine.Recognize(cmd.Context(), bytes.NewReader(data), contentType, string(lang))
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
