// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"club-portal/controllers"
	"club-portal/logger"
	"club-portal/middleware"
	"club-portal/mirror"
	"club-portal/services"
	sessionstate "club-portal/session"
	"club-portal/store"
	"club-portal/websocket"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		logger.Debug.Println("main: no .env file loaded")
	}

	env := os.Getenv("ENV")
	logger.SetLogLevel(env)
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default to localhost for local testing
	}
	websocketURL := os.Getenv("WEBSOCKET_URL")
	if websocketURL == "" {
		websocketURL = "ws://localhost:8080/live"
	}
	controllers.SetConfig(applicationURL, websocketURL)

	if os.Getenv("METRICS_ENABLED") == "true" {
		websocket.EnableMetrics()
	}

	// data layer: store, mirror, services
	db := store.NewMemStore()
	m := mirror.New(db)
	m.OnUpdate(func(key string) {
		websocket.PublishRefresh(key)
		if key == mirror.KeyAccounts {
			websocket.PublishPendingRegistrations(len(m.PendingAccounts()))
		}
	})
	m.Start()
	defer m.Stop()

	moderation := services.NewModerationService(db, m)
	content := services.NewContentService(db, m)

	if err := moderation.SeedAdmin(context.Background(), os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// durable session state
	sessionFile := os.Getenv("SESSION_FILE")
	if sessionFile == "" {
		sessionFile = "./session_state.json"
	}
	sessionManager := sessionstate.NewManager(sessionstate.NewFileKV(sessionFile))

	// router
	router := gin.Default()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
		logger.Warn.Println("main: SESSION_SECRET not set, using development default")
	}
	cookieStore := cookie.NewStore([]byte(secret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("clubsession", cookieStore))

	router.Static("/static", "./static")
	router.GET("/health", controllers.Health)

	authController := controllers.NewAuthController(moderation, sessionManager)
	pageController := controllers.NewPageController(m, content, sessionManager)
	adminController := controllers.NewAdminController(moderation, content, m)

	// public routes
	router.GET("/", pageController.Home)
	router.GET("/members", pageController.Members)
	router.GET("/committee", pageController.Committee)
	router.GET("/gallery", pageController.Gallery)
	router.GET("/notices", pageController.Notices)
	router.GET("/tournament", pageController.Tournament)
	router.GET("/about", pageController.About)
	router.POST("/posts/:id/like", pageController.LikePost)
	router.GET("/qrcode", controllers.GetQRCode)
	router.POST("/register", authController.Register)
	router.POST("/login", authController.PerformLogin)
	router.GET("/logout", authController.Logout)
	router.GET("/live", func(c *gin.Context) {
		websocket.ServeWs(c.Writer, c.Request)
	})

	// logged-in routes
	authed := router.Group("/", middleware.AuthRequired)
	{
		authed.GET("/me", authController.SessionStatus)
	}

	// administrator surface
	admin := router.Group("/admin", middleware.AdminRequired())
	{
		admin.GET("/pending", adminController.PendingAccounts)
		admin.POST("/pending/:id/approve", adminController.ApproveAccount)
		admin.POST("/pending/:id/reject", adminController.RejectAccount)

		admin.POST("/posts", adminController.CreatePost)
		admin.PUT("/posts/:id", adminController.UpdatePost)
		admin.POST("/notices", adminController.CreateNotice)
		admin.PUT("/notices/:id", adminController.UpdateNotice)
		admin.POST("/gallery", adminController.CreateGalleryItem)
		admin.POST("/people/:collection", adminController.CreatePerson)
		admin.PUT("/people/:collection/:id", adminController.UpdatePerson)
		admin.POST("/teams", adminController.CreateTeam)
		admin.PUT("/teams/:id", adminController.UpdateTeam)
		admin.DELETE("/:collection/:id", adminController.DeleteRecord)

		admin.PUT("/settings/site", adminController.UpdateSiteSettings)
		admin.PUT("/settings/about", adminController.UpdateAboutContent)
		admin.PUT("/settings/tournament", adminController.UpdateTournamentStats)
		admin.PUT("/settings/special-match", adminController.UpdateSpecialMatch)
	}

	// fan mirror updates out to connected browsers
	go websocket.HandleEvents()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
