package server

import (
	"fmt"
	"testing"

	"paragraph/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "valid registration",
			body: map[string]string{
				"username": "sara", "email": "sara@example.com", "password": "password123",
			},
			expectedStatus: fiber.StatusCreated,
		},
		{
			name: "missing username",
			body: map[string]string{
				"email": "x@example.com", "password": "password123",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "missing password",
			body: map[string]string{
				"username": "x", "email": "x@example.com",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
		{
			name: "duplicate username",
			body: map[string]string{
				"username": "sara", "email": "other@example.com", "password": "password123",
			},
			expectedStatus: fiber.StatusConflict,
		},
		{
			name: "duplicate email",
			body: map[string]string{
				"username": "other", "email": "sara@example.com", "password": "password123",
			},
			expectedStatus: fiber.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/v1/auth/register", tt.body, "")
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			if tt.expectedStatus == fiber.StatusCreated {
				assert.NotEmpty(t, body["token"])
			} else {
				assert.NotEmpty(t, body["message"], "error responses carry a Persian message")
			}
		})
	}
}

func TestLoginWithUsernameOrEmail(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "sara")

	for _, identity := range []string{"sara", "sara@example.com"} {
		resp := doJSON(t, app, "POST", "/v1/auth/login", map[string]string{
			"identity": identity, "password": "password123",
		}, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["token"])
	}

	resp := doJSON(t, app, "POST", "/v1/auth/login", map[string]string{
		"identity": "sara", "password": "wrong",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/v1/auth/login", map[string]string{
		"identity": "nobody", "password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBannedUserCannotLoginOrAct(t *testing.T) {
	srv, app := newTestServer(t)
	adminToken, _ := registerAdmin(t, srv, app, "admin")
	userToken, userID := registerUser(t, app, "troll")

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/v1/auth/%d/ban", userID), nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Existing token is useless once banned.
	resp = doJSON(t, app, "GET", "/v1/auth/me", nil, userToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// So is a fresh login.
	resp = doJSON(t, app, "POST", "/v1/auth/login", map[string]string{
		"identity": "troll", "password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Unban restores access.
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/v1/auth/%d/unban", userID), nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "GET", "/v1/auth/me", nil, userToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBanRequiresAdmin(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "plain")
	_, otherID := registerUser(t, app, "victim")

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/v1/auth/%d/ban", otherID), nil, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestChangeRole(t *testing.T) {
	srv, app := newTestServer(t)
	adminToken, _ := registerAdmin(t, srv, app, "admin")
	_, userID := registerUser(t, app, "writer")

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/v1/auth/%d/change-role", userID),
		map[string]string{"role": "editor"}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/v1/auth/%d/change-role", userID),
		map[string]string{"role": models.RoleAdmin}, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, srv.db.First(&user, userID).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestFollowAndNotification(t *testing.T) {
	srv, app := newTestServer(t)
	followerToken, _ := registerUser(t, app, "follower")
	followeeToken, followeeID := registerUser(t, app, "followee")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/v1/auth/%d/follow", followeeID), nil, followerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	srv.Dispatcher().Flush()

	// Repeat follow is a no-op and never duplicates the notification.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/v1/auth/%d/follow", followeeID), nil, followerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	srv.Dispatcher().Flush()

	resp = doJSON(t, app, "GET", "/v1/notifications", nil, followeeToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	notifs := body["notifications"].([]any)
	require.Len(t, notifs, 1)
	assert.Equal(t, float64(1), body["unread_count"])

	// Follower counts surface on the profile.
	resp = doJSON(t, app, "GET", fmt.Sprintf("/v1/auth/%d", followeeID), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	profile := decodeBody(t, resp)
	assert.Equal(t, float64(1), profile["followers_count"])
}

func TestFollowSelfRejected(t *testing.T) {
	_, app := newTestServer(t)
	token, id := registerUser(t, app, "narcissus")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/v1/auth/%d/follow", id), nil, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterReusingDeletedIdentity(t *testing.T) {
	_, app := newTestServer(t)
	token, id := registerUser(t, app, "raftani")

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/v1/auth/%d", id), nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The identity pre-check skips the soft-deleted row, but the unique
	// index still owns it: the retry must come back as a conflict, not a
	// raw database error.
	resp = doJSON(t, app, "POST", "/v1/auth/register", map[string]string{
		"username": "raftani",
		"email":    "raftani@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.MsgUserExists, decodeBody(t, resp)["message"])
}

func TestUpdateProfileOwnership(t *testing.T) {
	_, app := newTestServer(t)
	token, id := registerUser(t, app, "owner")
	otherToken, _ := registerUser(t, app, "stranger")

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/v1/auth/%d", id),
		map[string]string{"bio": "نویسنده"}, otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/v1/auth/%d", id),
		map[string]string{"bio": "نویسنده"}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	assert.Equal(t, "نویسنده", user["bio"])
}
