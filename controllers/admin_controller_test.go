//go:build unit
// +build unit

// file: controllers/admin_controller_test.go
package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) putJSON(t *testing.T, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("PUT", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(t *testing.T, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func adminCookie(t *testing.T, env *testEnv) *http.Cookie {
	t.Helper()
	require.NoError(t, env.moderation.SeedAdmin(context.Background(), "admin@club.org", "admin-pw"))
	return env.loginAs(t, "admin@club.org", "admin-pw")
}

func TestAdminSurface_RedirectsAnonymousVisitors(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get("/admin/pending", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestPendingAccounts_ListsOnlyPending(t *testing.T) {
	env := setupTestEnv(t)
	cookie := adminCookie(t, env)

	require.Equal(t, http.StatusCreated, env.postForm("/register", registerForm("a@x.com"), nil).Code)

	w := env.get("/admin/pending", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
	assert.NotContains(t, w.Body.String(), "admin@club.org", "the approved admin is not in the queue")
}

func TestApprove_TwiceAnswersConflict(t *testing.T) {
	env := setupTestEnv(t)
	cookie := adminCookie(t, env)

	require.Equal(t, http.StatusCreated, env.postForm("/register", registerForm("a@x.com"), nil).Code)
	id := env.mirror.PendingAccounts()[0].ID

	require.Equal(t, http.StatusOK, env.postForm("/admin/pending/"+id+"/approve", nil, cookie).Code)
	w := env.postForm("/admin/pending/"+id+"/approve", nil, cookie)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, env.mirror.Members(), 1)
}

func TestReject_RemovesTheAccount(t *testing.T) {
	env := setupTestEnv(t)
	cookie := adminCookie(t, env)

	require.Equal(t, http.StatusCreated, env.postForm("/register", registerForm("a@x.com"), nil).Code)
	id := env.mirror.PendingAccounts()[0].ID

	require.Equal(t, http.StatusOK, env.postForm("/admin/pending/"+id+"/reject", nil, cookie).Code)
	assert.Empty(t, env.mirror.PendingAccounts())
	assert.Empty(t, env.mirror.Members())
}

func TestCreatePost_ShowsUpInMirror(t *testing.T) {
	env := setupTestEnv(t)
	cookie := adminCookie(t, env)

	w := env.postJSON(t, "/admin/posts", `{"content":"season opener"}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	posts := env.mirror.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "season opener", posts[0].Content)
	assert.Zero(t, posts[0].LikeCount)
	assert.False(t, posts[0].CreatedAt.IsZero())
}

func TestDeleteRecord_TombstonesThroughTheStore(t *testing.T) {
	env := setupTestEnv(t)
	cookie := adminCookie(t, env)

	w := env.postJSON(t, "/admin/posts", `{"content":"to be removed"}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	id := env.mirror.Posts()[0].ID

	req, _ := http.NewRequest("DELETE", "/admin/posts/"+id, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.mirror.Posts())
}

func TestUpdateSiteSettings_MergesFields(t *testing.T) {
	env := setupTestEnv(t)
	cookie := adminCookie(t, env)

	require.Equal(t, http.StatusOK,
		env.putJSON(t, "/admin/settings/site", `{"clubName":"Madina Club","phone":"017"}`, cookie).Code)
	require.Equal(t, http.StatusOK,
		env.putJSON(t, "/admin/settings/site", `{"phone":"018"}`, cookie).Code)

	settings := env.mirror.SiteSettings()
	assert.Equal(t, "Madina Club", settings.ClubName)
	assert.Equal(t, "018", settings.Phone)
}

func TestCreatePost_StoreDownSurfacesFailure(t *testing.T) {
	env := setupTestEnv(t)
	cookie := adminCookie(t, env)

	env.store.SetUnavailable(true)
	w := env.postJSON(t, "/admin/posts", `{"content":"x"}`, cookie)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
