package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	httpHandler "media-gateway/interfaces/http"
	"media-gateway/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	downloadHandler httpHandler.IDownloadHandler,
	healthHandler httpHandler.IHealthHandler,
	allowOrigins []string,
	frontendDist string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("api")
	api.POST("/info", downloadHandler.GetInfo)
	api.POST("/download", downloadHandler.Download)

	router.GET("/health", healthHandler.Health)

	mountFrontend(router, frontendDist)

	return router
}

// mountFrontend serves the prebuilt web UI when its dist directory exists,
// falling back to index.html for client-side routes.
func mountFrontend(router *gin.Engine, dist string) {
	if dist == "" {
		return
	}
	st, err := os.Stat(dist)
	if err != nil || !st.IsDir() {
		return
	}
	fileServer := http.FileServer(http.Dir(dist))
	router.NoRoute(func(ctx *gin.Context) {
		path := filepath.Join(dist, filepath.Clean("/"+ctx.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(ctx.Writer, ctx.Request)
			return
		}
		ctx.File(filepath.Join(dist, "index.html"))
	})
}
