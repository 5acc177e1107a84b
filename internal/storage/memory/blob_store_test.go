package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutStoresCopyAndReturnsURI(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	payload := []byte("<html>snapshot</html>")

	uri, err := store.Put(context.Background(), "pages/sub-1.html", "text/html", payload)
	require.NoError(t, err)
	require.Equal(t, "memory://pages/sub-1.html", uri)

	// Mutating the caller's buffer must not change the stored copy.
	payload[0] = 'X'
	data, ok := store.Get("pages/sub-1.html")
	require.True(t, ok)
	require.Equal(t, []byte("<html>snapshot</html>"), data)
	require.Equal(t, 1, store.Len())
}

func TestGetMissingPath(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	_, ok := store.Get("absent")
	require.False(t, ok)
}
