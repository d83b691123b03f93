package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(handler http.Handler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(handler, Options{Port: 0, ShutdownTimeout: 2 * time.Second}, logger)
}

func TestServe_ServesUntilCancelled(t *testing.T) {
	srv := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not bind")
	}

	resp, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_ShutdownHooksRunInReverseOrder(t *testing.T) {
	srv := newTestServer(http.NotFoundHandler())

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("database", record("database"))
	srv.OnShutdown("redis", record("redis"))
	srv.OnShutdown("metrics", record("metrics"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.Serve(ctx))

	assert.Equal(t, []string{"metrics", "redis", "database"}, order)
}

func TestServe_HookErrorsAreJoined(t *testing.T) {
	srv := newTestServer(http.NotFoundHandler())

	errRedis := errors.New("redis close failed")
	calledDB := false
	srv.OnShutdown("database", func(context.Context) error {
		calledDB = true
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error { return errRedis })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := srv.Serve(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, errRedis)
	assert.True(t, calledDB, "later hooks must still run after a failure")
}

func TestServe_ListenError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(http.NotFoundHandler(), Options{Port: -1}, logger)

	err := srv.Serve(context.Background())
	assert.Error(t, err)
}
