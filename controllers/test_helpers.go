//go:build unit
// +build unit

// file: controllers/test_helpers.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"club-portal/middleware"
	"club-portal/mirror"
	"club-portal/services"
	sessionstate "club-portal/session"
	"club-portal/store"
)

// testEnv wires the full stack against an in-memory store, mirroring the
// router layout in main.go.
type testEnv struct {
	router     *gin.Engine
	store      *store.MemStore
	mirror     *mirror.Mirror
	moderation *services.ModerationService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := store.NewMemStore()
	m := mirror.New(db)
	m.Start()
	t.Cleanup(m.Stop)

	moderation := services.NewModerationService(db, m)
	content := services.NewContentService(db, m)
	sm := sessionstate.NewManager(sessionstate.NewFileKV(filepath.Join(t.TempDir(), "state.json")))

	authController := NewAuthController(moderation, sm)
	pageController := NewPageController(m, content, sm)
	adminController := NewAdminController(moderation, content, m)

	router := gin.New()
	router.Use(sessions.Sessions("testsession", cookie.NewStore([]byte("test-secret"))))

	router.GET("/", pageController.Home)
	router.GET("/members", pageController.Members)
	router.GET("/gallery", pageController.Gallery)
	router.POST("/posts/:id/like", pageController.LikePost)
	router.POST("/register", authController.Register)
	router.POST("/login", authController.PerformLogin)
	router.GET("/logout", authController.Logout)

	admin := router.Group("/admin", middleware.AdminRequired())
	admin.GET("/pending", adminController.PendingAccounts)
	admin.POST("/pending/:id/approve", adminController.ApproveAccount)
	admin.POST("/pending/:id/reject", adminController.RejectAccount)
	admin.POST("/posts", adminController.CreatePost)
	admin.DELETE("/:collection/:id", adminController.DeleteRecord)
	admin.PUT("/settings/site", adminController.UpdateSiteSettings)

	return &testEnv{router: router, store: db, mirror: m, moderation: moderation}
}

// postForm submits an urlencoded form, optionally with a session cookie.
func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// get performs a GET, optionally with a session cookie.
func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// loginAs authenticates and returns the resulting session cookie.
func (e *testEnv) loginAs(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := e.postForm("/login", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusOK, w.Code, "login should succeed: %s", w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}
