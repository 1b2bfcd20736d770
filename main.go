package main

import (
	"log"
	"strings"
	"time"

	"guestsnap/assignment"
	"guestsnap/auth"
	"guestsnap/config"
	"guestsnap/db"
	"guestsnap/faces"
	"guestsnap/gallery"
	"guestsnap/handlers"
	"guestsnap/models"
	"guestsnap/moderation"
	"guestsnap/processing"
	"guestsnap/realtime"
	"guestsnap/storage"
	"guestsnap/utils"
	"guestsnap/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sessionStoreKey       = "this is a long key" // TODO: convert to env variable
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	_ = godotenv.Load()

	db.Init()
	models.Init()
	storage.Init()

	hub := realtime.NewHub()
	gate := moderation.NewGate(db.Instance, hub)
	coordinator := assignment.NewCoordinator(db.Instance, assignment.NewDeviceCache())
	feeds := gallery.NewRegistry(hub)
	var matcher faces.Matcher
	if recognizer, err := faces.NewRecognizer(); err == nil {
		matcher = recognizer
	} else {
		log.Printf("Running without face matching: %v", err)
	}
	handlers.Init(hub, gate, coordinator, feeds)
	web.Init(hub, coordinator, feeds)
	processing.Init(hub, matcher)
	go processing.StartProcessing()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	// HTML templates
	router.LoadHTMLGlob("templates/*.tmpl")

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(sessionStoreKey))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// Bucket handlers
	authRouter.GET("/bucket/list", handlers.BucketList, models.PermissionAdmin)
	authRouter.POST("/bucket/save", handlers.BucketSave, models.PermissionAdmin)
	// User handlers
	router.POST("/user/login", handlers.UserLogin)
	router.POST("/user/create", handlers.UserCreate) // First user becomes admin, the rest need one
	authRouter.GET("/user/status", handlers.UserGetStatus)
	authRouter.POST("/user/logout", handlers.UserLogout)
	// Album handlers
	authRouter.GET("/album/list", handlers.AlbumList, models.PermissionAlbums)
	authRouter.POST("/album/create", handlers.AlbumCreate, models.PermissionAlbums)
	authRouter.POST("/album/save", handlers.AlbumSave, models.PermissionAlbums)
	authRouter.POST("/album/delete", handlers.AlbumDelete, models.PermissionAlbums)
	authRouter.GET("/album/share", handlers.AlbumShareCreate, models.PermissionAlbums)
	authRouter.GET("/album/qr", handlers.AlbumShareQR, models.PermissionAlbums)
	// Photo moderation handlers
	authRouter.GET("/photo/list", handlers.PhotoList, models.PermissionAlbums)
	authRouter.GET("/photo/pending", handlers.PhotoListPending, models.PermissionAlbums)
	authRouter.POST("/photo/moderate", handlers.PhotoModerate, models.PermissionAlbums)
	authRouter.POST("/photo/toggle", handlers.PhotoToggleVisibility, models.PermissionAlbums)
	authRouter.POST("/photo/delete", handlers.PhotoDelete, models.PermissionAlbums)
	// Guest handlers
	authRouter.GET("/guest/list", handlers.GuestList, models.PermissionAlbums)
	authRouter.POST("/guest/add", handlers.GuestAdd, models.PermissionAlbums)
	authRouter.POST("/guest/approve", handlers.GuestApprove, models.PermissionAlbums)
	authRouter.POST("/guest/delete", handlers.GuestDelete, models.PermissionAlbums)
	// Game handlers
	authRouter.POST("/game/reset", handlers.GameReset, models.PermissionAlbums)
	// Live updates
	authRouter.GET("/ws", handlers.WebSocket, models.PermissionAlbums)

	/*
	 *	Web interface (QR code target, no session required)
	 */
	router.GET("/w/album/:token/", web.AlbumView)
	router.GET("/w/album/:token/upload", web.UploadView)
	router.PUT("/w/album/:token/upload", web.PhotoUpload)
	router.POST("/w/album/:token/guest", web.GuestRegister)
	router.GET("/w/album/:token/slideshow", web.SlideshowView)
	router.GET("/w/album/:token/ws", web.AlbumSocket)
	router.GET("/w/album/:token/game/next", web.GameNext)
	router.POST("/w/album/:token/game/clear", web.GameClear)
	router.PUT("/w/album/:token/game/photo", web.GamePhoto)
	// Photo binaries for disk-backed buckets
	router.GET("/media/*path", web.MediaFetch)
	// Misc
	router.GET("/robots.txt", web.DisallowRobots)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
