package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/repository/gcs"
	"github.com/hashcare/hashcare/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func runDocumentStoreTest(t *testing.T, store interfaces.DocumentStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Put and Get", func(t *testing.T) {
		key := fmt.Sprintf("documents/%d/lab.pdf", time.Now().UnixNano())
		gt.NoError(t, store.Put(ctx, key, "application/pdf", []byte("%PDF-1.7"))).Required()

		data, mimeType, err := store.Get(ctx, key)
		gt.NoError(t, err).Required()
		gt.V(t, string(data)).Equal("%PDF-1.7")
		gt.V(t, mimeType).Equal("application/pdf")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, err := store.Get(ctx, "documents/missing/none.pdf")
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		gt.Error(t, store.Put(ctx, "", "text/plain", []byte("x"))).Is(model.ErrInvalidInput)
	})
}

func TestMemoryDocumentStore(t *testing.T) {
	runDocumentStoreTest(t, memory.NewDocumentStore())
}

func TestMemoryDocumentStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()

	data := []byte("abc")
	gt.NoError(t, store.Put(ctx, "k", "text/plain", data)).Required()
	data[0] = 'z'

	got, _, err := store.Get(ctx, "k")
	gt.NoError(t, err).Required()
	gt.V(t, string(got)).Equal("abc")
}

func TestGCSDocumentStore(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set")
	}

	store, err := gcs.New(context.Background(), bucket, gcs.WithPrefix("hashcare-test"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, store.Close())
	})
	runDocumentStoreTest(t, store)
}
