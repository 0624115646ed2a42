// Package storage keeps uploaded claim documents in blob storage. Azure Blob
// Storage backs deployments; an in-memory store backs tests and local runs.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/fra-atlas/atlas/pkg/lifecycle"
)

// System stores blobs under validated keys. Both Azure and Memory
// implement it.
type System interface {
	// Start registers the store's readiness check and startup work.
	Start(lc *lifecycle.Coordinator) error
	// Upload writes the blob at key, replacing any existing content.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download opens the blob at key; callers close the reader.
	// A missing blob yields ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob at key. A missing blob yields ErrNotFound.
	Delete(ctx context.Context, key string) error
}

type blobStore struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
	ready     atomic.Bool
}

// New creates an Azure-backed store. The container is created, if absent,
// when Start runs.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, clientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &blobStore{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

func clientOptions(cfg *Config) *azblob.ClientOptions {
	return &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: int32(cfg.MaxRetries),
				TryTimeout: cfg.TryTimeoutDuration(),
			},
		},
	}
}

func (s *blobStore) Start(lc *lifecycle.Coordinator) error {
	lc.Require("storage", s.ready.Load)

	lc.OnStartup(func() {
		_, err := s.client.CreateContainer(lc.Context(), s.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			s.logger.Error("container unavailable", "error", err)
			return
		}
		s.ready.Store(true)
		s.logger.Info("container ready")
	})

	return nil
}

func (s *blobStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := s.client.UploadStream(ctx, s.container, key, reader, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	return blobErr("upload", key, err)
}

func (s *blobStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		return nil, blobErr("download", key, err)
	}
	return resp.Body, nil
}

func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := s.client.DeleteBlob(ctx, s.container, key, nil)
	return blobErr("delete", key, err)
}

// blobErr maps a missing blob to ErrNotFound and wraps anything else.
func blobErr(op, key string, err error) error {
	switch {
	case err == nil:
		return nil
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s blob %s: %w", op, key, err)
	}
}
