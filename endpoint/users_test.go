package endpoint

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ariebrainware/therapist-booking/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUserManagement(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.seedAccount(t, "root", model.RoleAdmin)
	for i := 0; i < 3; i++ {
		ts.seedAccount(t, fmt.Sprintf("member%d", i), model.RoleUser)
	}

	w, env := performRequest(t, ts, requestSpec{method: http.MethodGet, path: "/users?limit=2", token: admin.token})
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Users      []model.User `json:"users"`
		Total      int64        `json:"total"`
		HasMore    bool         `json:"has_more"`
		NextCursor *uint        `json:"next_cursor"`
	}
	decodeData(t, env, &page)
	assert.Len(t, page.Users, 2)
	assert.EqualValues(t, 4, page.Total)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)

	w, env = performRequest(t, ts, requestSpec{method: http.MethodGet, path: "/users?keyword=member1", token: admin.token})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &page)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "member1", page.Users[0].Name)

	w, env = performRequest(t, ts, requestSpec{
		method: http.MethodPost,
		path:   "/users",
		token:  admin.token,
		body:   map[string]string{"name": "Second Admin", "email": "admin2@example.com", "password": "password123", "role": "admin"},
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	var created model.User
	decodeData(t, env, &created)
	assert.Equal(t, model.RoleAdmin, created.Role)

	w, _ = performRequest(t, ts, requestSpec{method: http.MethodDelete, path: fmt.Sprintf("/users/%d", created.ID), token: admin.token})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = performRequest(t, ts, requestSpec{method: http.MethodGet, path: fmt.Sprintf("/users/%d", created.ID), token: admin.token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserSelfService(t *testing.T) {
	ts := newTestServer(t)
	me := ts.seedAccount(t, "self", model.RoleUser)
	other := ts.seedAccount(t, "neighbour", model.RoleUser)

	mine := fmt.Sprintf("/users/%d", me.id)
	w, _ := performRequest(t, ts, requestSpec{method: http.MethodGet, path: mine, token: me.token})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := performRequest(t, ts, requestSpec{method: http.MethodGet, path: mine, token: other.token})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Message)

	w, env = performRequest(t, ts, requestSpec{method: http.MethodPut, path: mine, token: me.token, body: map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one field (name, phone, or password) must be provided", env.Message)

	w, env = performRequest(t, ts, requestSpec{
		method: http.MethodPut,
		path:   mine,
		token:  me.token,
		body:   map[string]string{"name": "Renamed", "password": "another-secret"},
	})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var updated model.User
	decodeData(t, env, &updated)
	assert.Equal(t, "Renamed", updated.Name)

	code, _ := login(t, ts, "self@example.com", "another-secret")
	assert.Equal(t, http.StatusOK, code)
	code, _ = login(t, ts, "self@example.com", "password123")
	assert.Equal(t, http.StatusUnauthorized, code)

	w, _ = performRequest(t, ts, requestSpec{method: http.MethodPut, path: mine, token: other.token, body: map[string]string{"name": "Hijack"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
