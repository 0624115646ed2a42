package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

func TestBlobErr(t *testing.T) {
	if err := blobErr("upload", "k", nil); err != nil {
		t.Errorf("nil err = %v", err)
	}

	missing := &azcore.ResponseError{ErrorCode: string(bloberror.BlobNotFound), StatusCode: 404}
	if err := blobErr("download", "k", missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing blob = %v, want ErrNotFound", err)
	}

	cause := errors.New("connection reset")
	err := blobErr("delete", "claims/a/b/c.pdf", cause)
	if !errors.Is(err, cause) || !strings.Contains(err.Error(), "delete blob claims/a/b/c.pdf") {
		t.Errorf("wrapped = %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &Config{MaxRetries: 5, TryTimeout: "30s"}
	opts := clientOptions(cfg)

	if opts.Retry.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", opts.Retry.MaxRetries)
	}
	if opts.Retry.TryTimeout != 30*time.Second {
		t.Errorf("TryTimeout = %v", opts.Retry.TryTimeout)
	}
}
