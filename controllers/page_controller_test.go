//go:build unit
// +build unit

// file: controllers/page_controller_test.go
package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-portal/models"
)

func TestHome_ServesDefaultsWhenStoreIsEmpty(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get("/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// empty collections render as [], never null
	assert.Contains(t, w.Body.String(), `"posts":[]`)
	assert.Contains(t, w.Body.String(), `"notices":[]`)
}

func TestMembers_ReflectsMirror(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.WriteFull(ctx, "members/m1",
		models.Person{ID: "m1", Name: "Rahim Uddin", Role: "General Member"}))

	w := env.get("/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rahim Uddin")
}

func TestLikePost_PublicAndCounted(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.WriteFull(ctx, "posts/p1",
		models.ContentPost{ID: "p1", Content: "like me", MediaType: models.MediaNone}))

	w := env.postForm("/posts/p1/like", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.mirror.Posts()[0].LikeCount)
}

func TestLikePost_UnknownPost(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postForm("/posts/missing/like", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
