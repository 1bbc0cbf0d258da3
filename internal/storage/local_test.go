package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/storage"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	docID := uuid.New()

	path, err := local.Upload(ctx, docID, "evidence.pdf", strings.NewReader("contents"))
	require.NoError(t, err)
	assert.Equal(t, "documents/"+docID.String()+"/evidence.pdf", path)

	rc, err := local.Download(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))

	require.NoError(t, local.Delete(ctx, path))
	_, err = local.Download(ctx, path)
	assert.Error(t, err)
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, local.Delete(context.Background(), "documents/gone/missing.pdf"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = local.Download(context.Background(), "../../etc/passwd")
	assert.Error(t, err)

	err = local.Delete(context.Background(), "../outside")
	assert.Error(t, err)
}

func TestLocalStorageUploadSanitizesFilename(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	docID := uuid.New()

	// Only the base name survives; directory components are dropped.
	path, err := local.Upload(ctx, docID, "../../sneaky.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "documents/"+docID.String()+"/sneaky.pdf", path)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := storage.NewLocal("")
	assert.Error(t, err)
}

func TestNewUnknownType(t *testing.T) {
	_, err := storage.New(storage.Config{Type: "tape"})
	assert.Error(t, err)
}
