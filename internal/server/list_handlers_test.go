package server

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createList(t *testing.T, app *fiber.App, token, name string) uint {
	t.Helper()
	resp := doJSON(t, app, "POST", "/v1/lists", map[string]any{"name": name}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	list := decodeBody(t, resp)["list"].(map[string]any)
	return uint(list["id"].(float64))
}

func TestListNameUniquePerOwner(t *testing.T) {
	_, app := newTestServer(t)
	firstToken, _ := registerUser(t, app, "first")
	secondToken, _ := registerUser(t, app, "second")

	createList(t, app, firstToken, "خواندنی‌ها")

	resp := doJSON(t, app, "POST", "/v1/lists", map[string]any{"name": "خواندنی‌ها"}, firstToken)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Another user may reuse the name.
	resp = doJSON(t, app, "POST", "/v1/lists", map[string]any{"name": "خواندنی‌ها"}, secondToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestListMembership(t *testing.T) {
	srv, app := newTestServer(t)
	authorToken, _ := registerUser(t, app, "author")
	readerToken, _ := registerUser(t, app, "reader")
	adminToken, _ := registerAdmin(t, srv, app, "admin")

	postID := createPost(t, app, authorToken, "ذخیره‌کردنی")
	publishPost(t, app, adminToken, postID)
	listID := createList(t, app, readerToken, "بعدا بخوانم")

	memberPath := fmt.Sprintf("/v1/lists/%d/posts/%d", listID, postID)
	resp := doJSON(t, app, "POST", memberPath, nil, readerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/v1/lists", nil, readerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	lists := decodeBody(t, resp)["lists"].([]any)
	require.Len(t, lists, 1)
	posts := lists[0].(map[string]any)["posts"].([]any)
	require.Len(t, posts, 1)

	resp = doJSON(t, app, "DELETE", memberPath, nil, readerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/v1/lists", nil, readerToken)
	lists = decodeBody(t, resp)["lists"].([]any)
	assert.Empty(t, lists[0].(map[string]any)["posts"])
}

func TestListOwnershipEnforced(t *testing.T) {
	_, app := newTestServer(t)
	ownerToken, _ := registerUser(t, app, "owner")
	strangerToken, _ := registerUser(t, app, "stranger")

	listID := createList(t, app, ownerToken, "شخصی")

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/v1/lists/%d", listID),
		map[string]any{"name": "دزدیده"}, strangerToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/v1/lists/%d", listID), nil, strangerToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/v1/lists/%d", listID),
		map[string]any{"name": "عمومی", "is_public": true}, ownerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeBody(t, resp)["list"].(map[string]any)
	assert.Equal(t, true, list["is_public"])
}
