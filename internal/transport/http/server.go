package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsvc "pdfqa/internal/app"
	"pdfqa/internal/bootstrap"
	"pdfqa/internal/cache"
	"pdfqa/internal/pkg/ratelimit"
	"pdfqa/internal/repository"
	"pdfqa/internal/transport/http/handler"
	"pdfqa/internal/transport/http/middleware"
	"pdfqa/internal/transport/http/response"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()

	// Every error status carries the uniform JSON body, including the ones
	// gin would otherwise answer with plain text.
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "not found")
	})
	router.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	security := middleware.NewSecurityMiddleware(
		app.Config.Upload.MaxSizeBytes,
		app.Publisher,
		app.Logger,
	)
	router.Use(
		middleware.RequestLogger(app.Logger),
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			app.Logger.Error("panic recovered",
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", recovered))
			response.Error(c, http.StatusInternalServerError, "internal server error")
			c.Abort()
		}),
		security.Handler(),
		cors.New(cors.Config{
			AllowOrigins:  app.Config.CORS.AllowOrigins,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Retry-After"},
			MaxAge:        12 * time.Hour,
		}),
	)

	if app.Config.RateLimit.Enabled {
		limiter := ratelimit.New(
			app.Config.RateLimit.MaxRequests,
			time.Duration(app.Config.RateLimit.WindowSeconds)*time.Second,
		)
		router.Use(middleware.RateLimit(limiter, app.Logger))
	}

	docRepo := repository.NewDocumentRepository(app.MySQL)
	answers := cache.NewAnswerCache(app.Redis, time.Duration(app.Config.Redis.AnswerTTLSeconds)*time.Second)

	uploadService := appsvc.NewUploadService(
		docRepo,
		app.LLM,
		app.Publisher,
		answers,
		app.Config.Upload.Dir,
		app.Config.Upload.MaxSizeBytes,
		app.Logger,
	)
	queryService := appsvc.NewQueryService(docRepo, app.LLM, answers, app.Logger)
	documentService := appsvc.NewDocumentService(
		docRepo,
		app.Publisher,
		answers,
		app.Config.Upload.Dir,
		app.Logger,
	)

	uploadHandler := handler.NewUploadHandler(uploadService)
	queryHandler := handler.NewQueryHandler(queryService)
	documentHandler := handler.NewDocumentHandler(documentService)
	healthHandler := handler.NewHealthHandler(app)

	api := router.Group("/api")
	api.GET("/health", healthHandler.Check)

	api.POST("/upload", uploadHandler.Upload)
	api.GET("/upload/status/:id", uploadHandler.Status)

	api.GET("/documents", documentHandler.List)
	api.GET("/documents/stats", documentHandler.Stats)
	api.GET("/documents/:id", documentHandler.Get)
	api.GET("/documents/:id/info", documentHandler.Info)
	api.DELETE("/documents/:id", documentHandler.Delete)
	api.POST("/documents/:id/summary", queryHandler.Summary)
	api.POST("/documents/:id/keywords", queryHandler.Keywords)

	api.POST("/query", queryHandler.Query)

	return router
}
