package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/api/auth/google")
	{
		auth.GET("/login", h.GoogleLogin)
		auth.GET("/callback", h.GoogleCallback)
	}

	conv := r.Group("/api/conversations", AuthSession(h.Store))
	{
		conv.POST("", RateLimit(h.Redis, h.RateLimitPerMin), h.CreateConversation)
		conv.GET("/:id/history", h.GetHistory)
		conv.PUT("/:id/history", h.UpdateHistory)
		conv.GET("/:id/suggestions", h.GetSuggestions)
	}

	return r
}
