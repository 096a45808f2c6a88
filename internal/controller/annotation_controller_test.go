package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-labeling-be/internal/config"
	"video-labeling-be/internal/pkg/serverutils"
	"video-labeling-be/internal/repository/implementation"
	"video-labeling-be/internal/repository/memory"
	"video-labeling-be/internal/service"
	"video-labeling-be/pkg/events"
	"video-labeling-be/pkg/probe"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type nopProber struct{}

func (nopProber) Probe(context.Context, string) (probe.Result, error) {
	return probe.Result{}, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.AnnotationEvent) error { return nil }

// newTestApp wires the full HTTP surface over a temp working directory, so
// handlers can use short relative video paths.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Chdir(t.TempDir())

	sidecarRepo := implementation.NewSidecarRepository()
	stagingRepo := memory.NewStagingRepository(time.Minute, time.Minute)
	annotationService := service.NewAnnotationService(
		sidecarRepo, stagingRepo, nopProber{}, nopPublisher{}, nopLogger{},
		config.AnnotationConfig{},
	)
	videoService := service.NewVideoService(config.VideoConfig{
		UploadDir:       "uploads",
		MaxUploadSizeMB: 8,
	}, nopLogger{})

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewAnnotationController(annotationService).RegisterRoutes(api)
	NewVideoController(videoService).RegisterRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func validBody(segmentIDs ...int) map[string]interface{} {
	segments := make([]interface{}, 0, len(segmentIDs))
	for _, id := range segmentIDs {
		segments = append(segments, map[string]interface{}{
			"segment_id":  id,
			"start_frame": id * 30,
			"end_frame":   id*30 + 30,
			"duration":    2.0,
			"action":      1,
			"caption":     "at the counter",
			"age":         2,
			"gender":      1,
			"disability":  2,
		})
	}
	return map[string]interface{}{
		"info": map[string]interface{}{
			"filename":     "clip.mp4",
			"format":       "mp4",
			"size":         1024,
			"width_height": []int{1920, 1080},
			"environment":  1,
			"device":       "KIOSK",
			"frame_rate":   15,
			"date":         "2026-08-31",
		},
		"segments":        segments,
		"additional_info": map[string]interface{}{"InteractionType": "Touchscreen"},
	}
}

func multipartSave(t *testing.T, app *fiber.App, path string, doc interface{}) *http.Response {
	t.Helper()

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "annotations.json")
	require.NoError(t, err)
	_, err = part.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("path", path))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/save-annotation", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCheckAnnotation(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/check-annotation", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "path is required")

	resp, body := doJSON(t, app, http.MethodGet, "/api/check-annotation?path=clip.mp4", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["exists"])

	resp = multipartSave(t, app, "clip.mp4", validBody(1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body = doJSON(t, app, http.MethodGet, "/api/check-annotation?path=clip.mp4", nil)
	assert.Equal(t, true, body["exists"])
}

func TestSaveAnnotation(t *testing.T) {
	app := newTestApp(t)

	t.Run("valid document", func(t *testing.T) {
		resp := multipartSave(t, app, "clip.mp4", validBody(1))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "clip.json", body["path"])

		_, err = os.Stat("clip.json")
		assert.NoError(t, err)
	})

	t.Run("invalid segment", func(t *testing.T) {
		doc := validBody(1)
		doc["segments"].([]interface{})[0].(map[string]interface{})["action"] = 7
		resp := multipartSave(t, app, "other.mp4", doc)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("blob path", func(t *testing.T) {
		resp := multipartSave(t, app, "blob:http://localhost/abc", validBody(1))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing file part", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/save-annotation", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestStageCompleteFetchFlow(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/annotations/clip.mp4", validBody(1, 2))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Nothing on disk yet.
	_, err := os.Stat("clip.json")
	assert.True(t, os.IsNotExist(err))

	resp, body := doJSON(t, app, http.MethodPost, "/api/complete/clip.mp4", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "clip.json", body["file"])

	_, err = os.Stat("clip.json")
	require.NoError(t, err)

	resp, body = doJSON(t, app, http.MethodGet, "/api/annotations/clip.mp4", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["segments"], 2)

	// The staging entry was consumed by complete.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/complete/clip.mp4", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCompleteIsModify(t *testing.T) {
	app := newTestApp(t)

	resp := multipartSave(t, app, "clip.mp4", validBody(1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	staged := validBody(2)
	resp, _ = doJSON(t, app, http.MethodPost, "/api/annotations/clip.mp4", staged)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/complete/clip.mp4?is_modify=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := doJSON(t, app, http.MethodGet, "/api/annotations/clip.mp4", nil)
	assert.Len(t, body["segments"], 2)
}

func TestCompleteRejectsMalformedIsModify(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/annotations/clip.mp4", validBody(1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/complete/clip.mp4?is_modify=banana", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The staged document is untouched by the rejected request.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/complete/clip.mp4?is_modify=true", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetAnnotationsSynthesizesWhenMissing(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/annotations/clip.mp4", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["segments"], 0)

	info, ok := body["info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "clip.mp4", info["filename"])
}

func TestModifySegment(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/annotations/clip.mp4", validBody(1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	segment := validBody(9)["segments"].([]interface{})[0]

	t.Run("missing index", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/modify-segment/clip.mp4", map[string]interface{}{
			"data": segment,
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("valid replacement", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/modify-segment/clip.mp4", map[string]interface{}{
			"index": 0,
			"data":  segment,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		_, body := doJSON(t, app, http.MethodGet, "/api/annotations/clip.mp4", nil)
		segments := body["segments"].([]interface{})
		require.Len(t, segments, 1)
		assert.Equal(t, float64(9), segments[0].(map[string]interface{})["segment_id"])
	})

	t.Run("index out of range", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/modify-segment/clip.mp4", map[string]interface{}{
			"index": 5,
			"data":  segment,
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteAnnotation(t *testing.T) {
	app := newTestApp(t)

	resp := multipartSave(t, app, "clip.mp4", validBody(1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodDelete, "/api/annotations/clip.mp4", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	_, err := os.Stat("clip.json")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat("clip.json.bak")
	assert.NoError(t, err)
}
