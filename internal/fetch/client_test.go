package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBodyAndStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	client := New(Config{UserAgent: "scout-test"})
	page, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Equal(t, []byte("<html>hello</html>"), page.Body)
	require.Greater(t, page.Duration, time.Duration(0))
}

func TestFetchSendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := New(Config{UserAgent: "scout-test/1.0"})
	_, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, "scout-test/1.0", gotUA)
}

func TestFetchNon2xxIsDataNotError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("gone"))
	}))
	defer srv.Close()

	client := New(Config{})
	page, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, page.StatusCode)
	require.Equal(t, []byte("gone"), page.Body)
}

func TestFetchTransportFailure(t *testing.T) {
	t.Parallel()

	// Unroutable port on localhost: connection refused, not an HTTP status.
	client := New(Config{})
	_, err := client.Fetch(context.Background(), "http://127.0.0.1:1", 2*time.Second)
	require.Error(t, err)
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	client := New(Config{})
	_, err := client.Fetch(ctx, srv.URL, 30*time.Second)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchCancelMidResponseIsRaceFree(t *testing.T) {
	t.Parallel()

	// The server finishes writing just after the caller's deadline fires,
	// so the collector callbacks run while Fetch is already returning.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	client := New(Config{})
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := client.Fetch(ctx, srv.URL, 30*time.Second)
		cancel()
		require.Error(t, err)
	}
}

func TestFetchConcurrentTimeoutsDoNotLeak(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := New(Config{})
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := client.Fetch(context.Background(), srv.URL, 5*time.Second)
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}
}
