package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/extract"
	"github.com/fra-atlas/atlas/pkg/pagination"
	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
	"github.com/fra-atlas/atlas/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	processor  *Processor
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	processor *Processor,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		processor:  processor,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "DocumentType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	docs, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key, err := storage.Key("claims", cmd.ClaimID.String(), id.String(), sanitizeFilename(cmd.Filename))
	if err != nil {
		return nil, err
	}

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	analysis, procErr := r.processor.Analyze(ctx, cmd.Data, cmd.ContentType, extract.Options{
		Language: cmd.Language,
		FormType: cmd.FormType,
	})
	if procErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.compensate(key)
			return nil, ctxErr
		}
		r.logger.Warn("document processing failed", "id", id, "error", procErr)
	}

	d := buildDocument(id, cmd, key, analysis, procErr, r.processor.PreviewLength(), r.now())

	entities, err := entitiesParam(d.Entities)
	if err != nil {
		r.compensate(key)
		return nil, fmt.Errorf("encode entities: %w", err)
	}

	q := `
		INSERT INTO public.claim_documents AS cd (
			id, claim_id, document_type, filename, content_type, size_bytes,
			page_count, storage_key, status, extracted_text, language, form_type,
			form_confidence, entities, extraction_confidence, extraction_quality,
			error, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb, $15, $16, $17, $18)
		RETURNING ` + projection.Columns()

	insertArgs := []any{
		d.ID, d.ClaimID, d.DocumentType, d.Filename, d.ContentType, d.SizeBytes,
		d.PageCount, d.StorageKey, d.Status, d.ExtractedText, d.Language, d.FormType,
		d.FormConfidence, entities, d.ExtractionConfidence, d.ExtractionQuality,
		d.Error, d.ProcessedAt,
	}

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})
	if err != nil {
		r.compensate(key)
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrClaimNotFound, cmd.ClaimID)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"document stored",
		"id", stored.ID,
		"claim_id", stored.ClaimID,
		"filename", stored.Filename,
		"status", stored.Status,
	)
	return &stored, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM public.claim_documents WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download document blob: %w", err)
	}
	return doc, rc, nil
}

// compensate removes a blob whose record could not be written.
func (r *repo) compensate(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.storage.Delete(ctx, key); err != nil {
		r.logger.Warn("compensating blob delete failed", "key", key, "error", err)
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "/" || name == "" {
		name = "document"
	}
	return url.PathEscape(strings.ReplaceAll(name, "..", "_"))
}
