package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"paragraph/internal/config"
	"paragraph/internal/database"
	"paragraph/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestServer wires a server over an in-memory SQLite database without
// Redis. The global limiter is off for the test env; per-route rate limits
// fail open with a nil Redis client.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret-key",
		Env:       "test",
		UploadDir: t.TempDir(),
	}

	srv := NewServerWithDeps(cfg, db, nil)
	return srv, srv.App()
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals the response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerUser creates an account through the API and returns its token and ID.
func registerUser(t *testing.T, app *fiber.App, username string) (token string, id uint) {
	t.Helper()
	resp := doJSON(t, app, "POST", "/v1/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	token = body["token"].(string)
	user := body["user"].(map[string]any)
	return token, uint(user["id"].(float64))
}

// registerAdmin registers a user and promotes them to admin directly in the
// database, the way the admin CLI would.
func registerAdmin(t *testing.T, srv *Server, app *fiber.App, username string) (token string, id uint) {
	t.Helper()
	token, id = registerUser(t, app, username)
	require.NoError(t, srv.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("role", models.RoleAdmin).Error)
	return token, id
}

// createPost creates a draft post through the API and returns its ID.
func createPost(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()
	resp := doJSON(t, app, "POST", "/v1/posts", map[string]any{
		"title":   title,
		"content": "متن آزمایشی برای " + title,
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	post := body["post"].(map[string]any)
	return uint(post["id"].(float64))
}

// publishPost publishes a draft as the given admin.
func publishPost(t *testing.T, app *fiber.App, adminToken string, postID uint) {
	t.Helper()
	resp := doJSON(t, app, "PUT", postPath(postID)+"/publish", nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func postPath(id uint) string {
	return fmt.Sprintf("/v1/posts/%d", id)
}
