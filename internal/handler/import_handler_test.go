package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// The web server keeps running when Redis is down; the handler must tolerate
// the nil clients that wiring leaves behind.

func TestLiveProgressWithoutRedis(t *testing.T) {
	h := NewImportHandler(nil, nil, nil, nil, nil, testLogger())

	live, ok := h.liveProgress(context.Background(), 1)
	assert.False(t, ok)
	assert.Zero(t, live.Progress)
	assert.Zero(t, live.Processed)
}

func TestProcessAsyncWithoutQueue(t *testing.T) {
	h := NewImportHandler(nil, nil, nil, nil, nil, testLogger())

	app := fiber.New()
	app.Post("/api/v1/imports/:id/process-async", h.ProcessAsync)

	req := httptest.NewRequest("POST", "/api/v1/imports/5/process-async", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
