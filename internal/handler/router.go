package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netcode-labs/auth-service/internal/config"
	"github.com/netcode-labs/auth-service/internal/model"
	"github.com/netcode-labs/auth-service/internal/service"
	"github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, log zerolog.Logger, auth *service.AuthService, h *AuthHandler) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CorrelationID(log))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))
	}
	if cfg.RateLimit.Enabled {
		router.Use(RateLimit(cfg.RateLimit))
	}

	router.GET("/health", Health)

	bearer := BearerAuth(auth, cfg.App.Debug, true)

	v1 := router.Group("/api/v1")
	v1.POST("/login", h.Login)
	v1.GET("/logout", bearer, h.Logout)
	v1.POST("/refresh", bearer, h.Refresh)
	v1.POST("/register", bearer, RequireRole("root"), h.Register)

	return router
}

// Health godoc
// @Summary Health check
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusResponse{Status: "healthy"})
}
