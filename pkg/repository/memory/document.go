package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type blob struct {
	mimeType string
	data     []byte
}

// DocumentStore keeps uploaded documents in process memory
type DocumentStore struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

var _ interfaces.DocumentStore = &DocumentStore{}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		blobs: make(map[string]blob),
	}
}

func (s *DocumentStore) Put(ctx context.Context, key string, mimeType string, data []byte) error {
	if key == "" {
		return goerr.Wrap(model.ErrInvalidInput, "document key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob{mimeType: mimeType, data: slices.Clone(data)}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[key]
	if !ok {
		return nil, "", goerr.Wrap(model.ErrNotFound, "document not found", goerr.V(model.DocumentIDKey, key))
	}
	return slices.Clone(b.data), b.mimeType, nil
}
