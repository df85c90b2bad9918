package utils

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializePosthogClient_EmptyKey(t *testing.T) {
	w := InitializePosthogClient("", slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, w.IsInitialized())
	assert.NotPanics(t, func() {
		w.Enqueue("ip:127.0.0.1", "order_export_downloaded", nil)
		w.Close()
	})
}

func TestPosthogClientWrapper_NilReceiver(t *testing.T) {
	var w *PosthogClientWrapper

	assert.False(t, w.IsInitialized())
	assert.NotPanics(t, func() { w.Enqueue("x", "y", nil) })
}
