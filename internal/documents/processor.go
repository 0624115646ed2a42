package documents

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/fra-atlas/atlas/pkg/extract"
	"github.com/fra-atlas/atlas/pkg/ocr"
)

// Processor runs OCR and the extraction pipeline over document bytes.
// It holds no state beyond its collaborators and is safe for concurrent use.
type Processor struct {
	engine        ocr.Engine
	registry      *extract.Registry
	previewLength int
	logger        *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(engine ocr.Engine, registry *extract.Registry, previewLength int, logger *slog.Logger) *Processor {
	return &Processor{
		engine:        engine,
		registry:      registry,
		previewLength: previewLength,
		logger:        logger.With("system", "extraction"),
	}
}

// PreviewLength is the number of characters of text kept in responses and records.
func (p *Processor) PreviewLength() int {
	return p.previewLength
}

// Analyze recognizes the document and extracts its form fields. A declared
// language is passed to OCR as well as to the pipeline.
func (p *Processor) Analyze(ctx context.Context, data []byte, contentType string, opts extract.Options) (*Analysis, error) {
	lang, err := extract.ParseLanguage(opts.Language)
	if err != nil {
		return nil, err
	}

	recognized, err := p.engine.Recognize(ctx, bytes.NewReader(data), contentType, string(lang))
	if err != nil {
		return nil, err
	}

	result, err := p.registry.Process(recognized.Text, opts)
	if err != nil {
		return nil, err
	}

	p.logger.Info(
		"document analyzed",
		"form_type", result.FormType,
		"language", result.Language,
		"confidence", result.ExtractionConfidence.Confidence,
	)

	return &Analysis{
		Text:   recognized.Text,
		Pages:  recognized.Pages,
		Result: result,
	}, nil
}

// ExtractText runs the pipeline over recognized text.
func (p *Processor) ExtractText(text string, opts extract.Options) (extract.Result, error) {
	return p.registry.Process(text, opts)
}
