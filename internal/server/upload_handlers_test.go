package server

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestUploadCoverImage(t *testing.T) {
	srv, app := newTestServer(t)
	token, _ := registerUser(t, app, "uploader")

	buf, contentType := multipartUpload(t, "coverImage", "cover.png", []byte("fake png bytes"))
	req := httptest.NewRequest("POST", "/v1/upload", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	url := body["url"].(string)
	assert.True(t, strings.HasPrefix(url, "/uploads/covers/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// The file landed under the configured upload dir.
	onDisk := filepath.Join(srv.config.UploadDir, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), data)
}

func TestUploadPodcastGoesToPodcastsDir(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "podcaster")

	buf, contentType := multipartUpload(t, "podcast", "episode.mp3", []byte("id3 audio"))
	req := httptest.NewRequest("POST", "/v1/upload", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.True(t, strings.HasPrefix(body["url"].(string), "/uploads/podcasts/"))
}

func TestUploadRejections(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "uploader")

	tests := []struct {
		name     string
		field    string
		filename string
	}{
		{"unknown field", "document", "file.pdf"},
		{"bad image extension", "coverImage", "cover.exe"},
		{"bad audio extension", "podcast", "episode.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, contentType := multipartUpload(t, tt.field, tt.filename, []byte("data"))
			req := httptest.NewRequest("POST", "/v1/upload", buf)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}
