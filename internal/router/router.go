package router

import (
	"log/slog"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/cache"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/config"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/handler"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/middleware"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/service"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires services, middleware and the route table.
func SetupRouter(cfg *config.Config, st store.Store, ch *cache.Cache, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	verifier := service.NewVerifier(st, ch, service.VerifierConfig{
		TokenSecret:      cfg.JWT.Secret,
		TokenIssuer:      cfg.JWT.Issuer,
		TokenTTL:         time.Duration(cfg.JWT.ExpireHours) * time.Hour,
		BcryptCost:       cfg.Security.BcryptCost,
		LockoutThreshold: cfg.Security.LockoutThreshold,
		LockoutWindow:    time.Duration(cfg.Security.LockoutMinutes) * time.Minute,
	})
	users := service.NewUsers(st, ch, ttl)
	posts := service.NewPosts(st, ch, ttl)

	authHandler := handler.NewAuthHandler(verifier)
	userHandler := handler.NewUserHandler(users, posts)
	postHandler := handler.NewPostHandler(posts)
	exportHandler := handler.NewExportHandler(st)

	requireAuth := middleware.RequireAuth(cfg.JWT.Secret, st)
	optionalAuth := middleware.OptionalAuth(cfg.JWT.Secret, st)
	authLimit := middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	r.GET("/health", handler.Health)

	api := r.Group("/api")

	api.POST("/auth/register", authLimit, authHandler.Register)
	api.POST("/auth/login", authLimit, authHandler.Login)
	api.GET("/auth/me", requireAuth, authHandler.Me)
	api.POST("/auth/logout", requireAuth, authHandler.Logout)

	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.GET("/users/:id/posts", userHandler.Posts)

	api.GET("/posts", optionalAuth, postHandler.Feed)
	api.GET("/posts/:id", postHandler.Get)
	api.POST("/posts", requireAuth, postHandler.Create)
	api.DELETE("/posts/:id", requireAuth, postHandler.Delete)

	api.GET("/export/csv", requireAuth, exportHandler.CSV)
	api.GET("/export/xlsx", requireAuth, exportHandler.XLSX)

	return r
}
