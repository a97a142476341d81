//go:build !integration

package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func TestNewServer(t *testing.T) {
	server := NewServer(okHandler(), "8080")

	require.NotNil(t, server)
	require.NotNil(t, server.httpServer)
	assert.Equal(t, ":8080", server.httpServer.Addr)
	assert.Equal(t, 15*time.Second, server.httpServer.ReadTimeout)
	assert.Equal(t, 5*time.Second, server.httpServer.ReadHeaderTimeout)
	assert.Equal(t, 15*time.Second, server.httpServer.WriteTimeout)
	assert.Equal(t, 60*time.Second, server.httpServer.IdleTimeout)
	assert.Equal(t, 10*time.Second, server.shutdownTimeout)
}

func TestServer_Shutdown(t *testing.T) {
	tests := []struct {
		name    string
		hooks   []ShutdownHook
		wantErr error
	}{
		{name: "no hooks"},
		{
			name: "hooks run with a deadline",
			hooks: []ShutdownHook{func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					return errors.New("missing deadline")
				}
				return nil
			}},
		},
		{
			name: "hook errors are returned",
			hooks: []ShutdownHook{
				func(context.Context) error { return assert.AnError },
				func(context.Context) error { return nil },
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(okHandler(), "0")
			for _, h := range tt.hooks {
				server.OnShutdown(h)
			}

			err := server.Shutdown()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServer_ServeAndStop(t *testing.T) {
	server := NewServer(okHandler(), "0")
	hookRan := make(chan struct{})
	server.OnShutdown(func(context.Context) error {
		close(hookRan)
		return nil
	})

	ln, err := server.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shutdown in time")
	}
	<-hookRan
}

func TestServer_RunContext_InvalidPort(t *testing.T) {
	server := NewServer(okHandler(), "invalid-port")

	err := server.RunContext(context.Background())

	assert.Error(t, err)
}
