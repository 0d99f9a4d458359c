package server

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTopic(t *testing.T, app *fiber.App, adminToken, name string, parentID *uint) uint {
	t.Helper()
	body := map[string]any{"name": name}
	if parentID != nil {
		body["parent_id"] = *parentID
	}
	resp := doJSON(t, app, "POST", "/v1/topics", body, adminToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	topic := decodeBody(t, resp)["topic"].(map[string]any)
	return uint(topic["id"].(float64))
}

func TestTopicCRUDIsAdminOnly(t *testing.T) {
	srv, app := newTestServer(t)
	userToken, _ := registerUser(t, app, "plain")
	adminToken, _ := registerAdmin(t, srv, app, "admin")

	resp := doJSON(t, app, "POST", "/v1/topics", map[string]string{"name": "فناوری"}, userToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	id := createTopic(t, app, adminToken, "فناوری", nil)

	resp = doJSON(t, app, "POST", "/v1/topics", map[string]string{"name": "فناوری"}, adminToken)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/v1/topics/%d", id), nil, userToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/v1/topics/%d", id), nil, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateTopicReusingDeletedName(t *testing.T) {
	srv, app := newTestServer(t)
	adminToken, _ := registerAdmin(t, srv, app, "admin")

	id := createTopic(t, app, adminToken, "فلسفه", nil)
	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/v1/topics/%d", id), nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The name lookup skips the soft-deleted topic; the unique index on
	// name still rejects the reuse, and that must read as a conflict.
	resp = doJSON(t, app, "POST", "/v1/topics", map[string]string{"name": "فلسفه"}, adminToken)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestTopicNestingLimitedToOneLevel(t *testing.T) {
	srv, app := newTestServer(t)
	adminToken, _ := registerAdmin(t, srv, app, "admin")

	rootID := createTopic(t, app, adminToken, "فناوری", nil)
	childID := createTopic(t, app, adminToken, "برنامه‌نویسی", &rootID)

	// A topic under a child is rejected at write time.
	resp := doJSON(t, app, "POST", "/v1/topics", map[string]any{
		"name": "گو", "parent_id": childID,
	}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTopicTreeWithPostCounts(t *testing.T) {
	srv, app := newTestServer(t)
	authorToken, _ := registerUser(t, app, "author")
	adminToken, _ := registerAdmin(t, srv, app, "admin")

	rootID := createTopic(t, app, adminToken, "فناوری", nil)
	childID := createTopic(t, app, adminToken, "برنامه‌نویسی", &rootID)
	createTopic(t, app, adminToken, "هنر", nil)

	resp := doJSON(t, app, "POST", "/v1/posts", map[string]any{
		"title":     "مطلب فنی",
		"content":   "متن",
		"topic_ids": []uint{childID},
	}, authorToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/v1/topics", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	topics := decodeBody(t, resp)["topics"].([]any)
	require.Len(t, topics, 2, "only main topics at the top level")

	for _, raw := range topics {
		node := raw.(map[string]any)
		switch node["name"] {
		case "فناوری":
			children := node["children"].([]any)
			require.Len(t, children, 1)
			child := children[0].(map[string]any)
			assert.Equal(t, "برنامه‌نویسی", child["name"])
			assert.Equal(t, float64(1), child["posts_count"])
		case "هنر":
			assert.Empty(t, node["children"])
			assert.Equal(t, float64(0), node["posts_count"])
		default:
			t.Fatalf("unexpected top-level topic %v", node["name"])
		}
	}
}

func TestTopicFollowEndpoints(t *testing.T) {
	srv, app := newTestServer(t)
	userToken, _ := registerUser(t, app, "reader")
	adminToken, _ := registerAdmin(t, srv, app, "admin")

	id := createTopic(t, app, adminToken, "کتاب", nil)

	resp := doJSON(t, app, "POST", fmt.Sprintf("/v1/topics/%d/follow", id), nil, userToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "POST", fmt.Sprintf("/v1/topics/%d/unfollow", id), nil, userToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/v1/topics/9999/follow", nil, userToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
