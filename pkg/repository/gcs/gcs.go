// Package gcs stores uploaded medical documents in a Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.DocumentStore = &Store{}

type Option func(*Store)

// WithPrefix places every object under prefix
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func New(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	s := &Store{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(path.Join(s.prefix, key))
}

func (s *Store) Put(ctx context.Context, key string, mimeType string, data []byte) error {
	if key == "" {
		return goerr.Wrap(model.ErrInvalidInput, "document key is empty")
	}

	w := s.object(key).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write document", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to upload document", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	r, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, "", goerr.Wrap(model.ErrNotFound, "document not found", goerr.V("key", key))
		}
		return nil, "", goerr.Wrap(err, "failed to open document", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to read document", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	return data, r.Attrs.ContentType, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
