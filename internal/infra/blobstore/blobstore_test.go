package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	data := []byte("payload")
	obj, err := store.Put(ctx, "documents/abc/source.fdb", data, "application/octet-stream")
	require.NoError(t, err)
	require.Equal(t, int64(7), obj.Size)
	require.NotEmpty(t, obj.ETag)
	data[0] = 'X'

	reader, err := store.Get(ctx, "documents/abc/source.fdb")
	require.NoError(t, err)
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))

	require.NoError(t, store.Delete(ctx, "documents/abc/source.fdb"))
	_, err = store.Get(ctx, "documents/abc/source.fdb")
	require.Error(t, err)
}

func TestSanitizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"https://acct.r2.cloudflarestorage.com/bucket": "acct.r2.cloudflarestorage.com",
		"http://localhost:9000":                        "localhost:9000",
		"  minio:9000  ":                               "minio:9000",
		"":                                             "",
	}
	for in, want := range cases {
		require.Equal(t, want, sanitizeEndpoint(in), in)
	}
}
