package router

import (
	"github.com/gin-gonic/gin"

	"github.com/portfolio-admin/skills-backend/internal/config"
	"github.com/portfolio-admin/skills-backend/internal/http/handlers"
	"github.com/portfolio-admin/skills-backend/internal/http/middleware"
)

// SetupRouter собирает маршруты HTTP API.
func SetupRouter(
	cfg *config.Config,
	skillHandler *handlers.SkillHandler,
	publicHandler *handlers.PublicHandler,
	healthHandler *handlers.HealthHandler,
	tokens middleware.TokenParser,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	if healthHandler != nil {
		r.GET("/health", healthHandler.Health)
	}

	api := r.Group("/api")

	// Публичная витрина портфолио
	public := api.Group("/public")
	public.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		public.GET("/skills", publicHandler.PortfolioBoard)
		public.GET("/users/:id/skills", middleware.UUIDValidator("id"), publicHandler.UserBoard)
	}

	// Админка владельца
	skills := api.Group("/skills")
	skills.Use(middleware.AuthMiddleware(tokens))
	{
		skills.GET("", skillHandler.Board)
		skills.GET("/categories", skillHandler.Categories)
		skills.POST("", skillHandler.Create)
		skills.PUT("/reorder", skillHandler.Reorder)
		skills.PATCH("/reorder", skillHandler.Reorder)
		skills.GET("/:id", middleware.UUIDValidator("id"), skillHandler.Get)
		skills.PUT("/:id", middleware.UUIDValidator("id"), skillHandler.Update)
		skills.PATCH("/:id", middleware.UUIDValidator("id"), skillHandler.Update)
		skills.POST("/:id/move", middleware.UUIDValidator("id"), skillHandler.Move)
		skills.DELETE("/:id", middleware.UUIDValidator("id"), skillHandler.Delete)
	}

	return r
}
