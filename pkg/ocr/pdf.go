package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"

	"golang.org/x/sync/errgroup"
)

// recognizePDF renders every page to PNG through ImageMagick and runs
// Tesseract on each page concurrently. Page texts are joined in order.
func (t *tesseract) recognizePDF(ctx context.Context, src, tempDir, lang string) (string, int, error) {
	pdfDoc, err := document.OpenPDF(src)
	if err != nil {
		return "", 0, fmt.Errorf("%w: open pdf: %w", ErrRenderFailed, err)
	}
	defer pdfDoc.Close()

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return "", 0, fmt.Errorf("%w: extract pages: %w", ErrRenderFailed, err)
	}

	pageCount := len(allPages)
	if pageCount > t.cfg.MaxPages {
		return "", 0, fmt.Errorf("%w: %d pages, limit %d", ErrTooManyPages, pageCount, t.cfg.MaxPages)
	}

	renderer, err := image.NewImageMagickRenderer(config.ImageConfig{
		Format:  "png",
		DPI:     t.cfg.DPI,
		Options: map[string]any{"background": "white"},
	})
	if err != nil {
		return "", 0, fmt.Errorf("%w: create renderer: %w", ErrRenderFailed, err)
	}

	texts := make([]string, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(pageCount))

	for i, page := range allPages {
		pageNum := i + 1
		imgPath := filepath.Join(tempDir, fmt.Sprintf("page-%d.png", pageNum))

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("%w: page %d: %w", ErrRenderFailed, pageNum, err)
			}

			if err := os.WriteFile(imgPath, data, 0600); err != nil {
				return fmt.Errorf("write page %d image: %w", pageNum, err)
			}

			text, err := t.recognizeImage(gctx, imgPath, lang)
			if err != nil {
				return fmt.Errorf("page %d: %w", pageNum, err)
			}

			texts[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", 0, err
	}

	return strings.Join(texts, "\n\n"), pageCount, nil
}
