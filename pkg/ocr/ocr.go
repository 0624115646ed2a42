// Package ocr turns scanned claim documents into text with Tesseract.
// Images are recognized directly; PDFs are rendered page by page first.
package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// ContentTypes maps every accepted upload content type to a file extension.
var ContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/tiff":      ".tiff",
	"image/bmp":       ".bmp",
	"application/pdf": ".pdf",
}

// Supported reports whether contentType can be recognized.
func Supported(contentType string) bool {
	_, ok := ContentTypes[baseType(contentType)]
	return ok
}

func baseType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// Result is recognized document text.
type Result struct {
	Text     string        `json:"text"`
	Pages    int           `json:"pages"`
	Language string        `json:"language"`
	Duration time.Duration `json:"duration"`
}

// Engine recognizes text in an uploaded document.
type Engine interface {
	// Recognize reads the document from r. An empty lang uses the configured
	// default language set.
	Recognize(ctx context.Context, r io.Reader, contentType, lang string) (*Result, error)
}

type tesseract struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// New creates a Tesseract engine that shells out through runner. A nil
// runner uses os/exec.
func New(cfg *Config, runner Runner, logger *slog.Logger) Engine {
	logger = logger.With("system", "ocr")
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	return &tesseract{
		cfg:    *cfg,
		runner: runner,
		logger: logger,
	}
}

func (t *tesseract) Recognize(ctx context.Context, r io.Reader, contentType, lang string) (*Result, error) {
	ct := baseType(contentType)
	ext, ok := ContentTypes[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}

	if lang == "" {
		lang = t.cfg.Languages
	}

	if d := t.cfg.TimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()

	tempDir, err := os.MkdirTemp("", "atlas-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	src := filepath.Join(tempDir, "source"+ext)
	if err := writeFile(src, r); err != nil {
		return nil, err
	}

	var (
		text  string
		pages int
	)

	if ext == ".pdf" {
		text, pages, err = t.recognizePDF(ctx, src, tempDir, lang)
	} else {
		text, err = t.recognizeImage(ctx, src, lang)
		pages = 1
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Text:     Normalize(text),
		Pages:    pages,
		Language: lang,
		Duration: time.Since(start),
	}

	t.logger.Info(
		"document recognized",
		"content_type", ct,
		"pages", pages,
		"chars", len(result.Text),
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

func (t *tesseract) recognizeImage(ctx context.Context, path, lang string) (string, error) {
	args := []string{
		path, "stdout",
		"--oem", strconv.Itoa(t.cfg.OEM),
		"--psm", strconv.Itoa(t.cfg.PSM),
		"-l", lang,
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %s", ErrRecognizeFailed, err, truncate(string(errb), 512))
	}

	return string(out), nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	return f.Close()
}

func workerCount(n int) int {
	return max(min(runtime.NumCPU(), n), 1)
}
