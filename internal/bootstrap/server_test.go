package bootstrap_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-storefront/internal/bootstrap"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStartHTTPServer_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- bootstrap.StartHTTPServer(ctx, http.NotFoundHandler(), bootstrap.ServerConfig{
			Port:            "0",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		}, zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartHTTPServer_ListenError(t *testing.T) {
	err := bootstrap.StartHTTPServer(context.Background(), http.NotFoundHandler(), bootstrap.ServerConfig{
		Port:            "not-a-port",
		ShutdownTimeout: time.Second,
	}, zap.NewNop())
	assert.Error(t, err)
}
