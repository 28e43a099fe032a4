package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"focustracker/internal/handler"
	"focustracker/internal/middleware"
	"focustracker/internal/service"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Timer    *handler.TimerHandler
	Category *handler.CategoryHandler
	Report   *handler.ReportHandler
}

func New(
	authService *service.AuthService,
	handlers Handlers,
	corsOrigins []string,
	logger *slog.Logger,
) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(corsOrigins),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "auth": authService.Enabled()})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/login", handlers.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService))

	timer := protected.Group("/timer")
	timer.GET("/state", handlers.Timer.GetState)
	timer.GET("/events", handlers.Timer.Events)
	timer.POST("/category", handlers.Timer.SelectCategory)
	timer.POST("/toggle", handlers.Timer.Toggle)
	timer.POST("/reset", handlers.Timer.Reset)
	timer.POST("/resume", handlers.Timer.Resume)
	timer.POST("/choice", handlers.Timer.Choose)
	timer.POST("/lifecycle", handlers.Timer.Lifecycle)
	timer.PUT("/duration", handlers.Timer.AdjustDuration)

	categories := protected.Group("/categories")
	categories.GET("", handlers.Category.List)
	categories.POST("", handlers.Category.Create)
	categories.PUT("/:id", handlers.Category.Update)
	categories.DELETE("/:id", handlers.Category.Delete)

	reports := protected.Group("/reports")
	reports.GET("/summary", handlers.Report.Summary)
	reports.GET("/daily", handlers.Report.Daily)
	reports.GET("/sessions", handlers.Report.Sessions)

	return engine
}
