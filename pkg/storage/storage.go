// Package storage keeps exported analysis reports in an Azure Blob Storage
// container.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/halalcheck/halalcheck/pkg/lifecycle"
)

// Object is an open blob. The caller closes Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

type System interface {
	// Start ensures the container exists during startup.
	Start(lc *lifecycle.Coordinator) error
	// Put writes data to key, replacing any existing blob.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Open reports ErrNotFound for a missing key.
	Open(ctx context.Context, key string) (*Object, error)
	// Delete reports ErrNotFound for a missing key.
	Delete(ctx context.Context, key string) error
}

type container struct {
	client *azblob.Client
	name   string
	logger *slog.Logger
}

// New builds the client from a connection string. It makes no request.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &container{
		client: client,
		name:   cfg.ContainerName,
		logger: logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

// Start never fails; an unreachable account only disables report export.
func (c *container) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		_, err := c.client.CreateContainer(lc.Context(), c.name, nil)
		switch {
		case err == nil:
			c.logger.Info("container created")
		case bloberror.HasCode(err, bloberror.ContainerAlreadyExists):
			c.logger.Info("container ready")
		default:
			c.logger.Error("container unavailable", "error", err)
		}
	})
	return nil
}

func (c *container) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := c.client.UploadBuffer(ctx, c.name, key, data, opts); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	c.logger.Debug("blob written", "key", key, "bytes", len(data))
	return nil
}

func (c *container) Open(ctx context.Context, key string) (*Object, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	resp, err := c.client.DownloadStream(ctx, c.name, key, nil)
	if err != nil {
		return nil, blobError("open", key, err)
	}

	obj := &Object{Body: resp.Body}
	if resp.ContentType != nil {
		obj.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		obj.ContentLength = *resp.ContentLength
	}
	return obj, nil
}

func (c *container) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := c.client.DeleteBlob(ctx, c.name, key, nil); err != nil {
		return blobError("delete", key, err)
	}
	c.logger.Debug("blob deleted", "key", key)
	return nil
}

func blobError(op, key string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}

// checkKey accepts relative, already clean keys such as
// "reports/<id>.json".
func checkKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.HasPrefix(key, "/"), strings.Contains(key, ".."), path.Clean(key) != key:
		return ErrInvalidKey
	}
	return nil
}
