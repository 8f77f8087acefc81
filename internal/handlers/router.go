package handlers

import (
	"time"

	"ai-pulse/internal/auth"
	"ai-pulse/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router bundles the handlers served by the API
type Router struct {
	Feed     *FeedHandler
	Profile  *ProfileHandler
	Admin    *AdminHandler
	Docs     *DocsHandler
	Verifier *auth.JWTVerifier
}

// Engine builds the gin engine with every route
func (rt *Router) Engine(cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// No configured origins means any origin, without credentials
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	// Health check
	r.GET("/health", rt.Feed.HealthCheck)

	if rt.Docs != nil {
		r.GET("/docs", rt.Docs.ServeIndex)
		r.GET("/docs/:doc", rt.Docs.ServeDoc)
	}

	// API routes
	api := r.Group("/api")
	{
		api.GET("/pulse", rt.Feed.GetPulse)
		api.GET("/onboarding/interests", rt.Feed.GetOnboardingInterests)
		api.GET("/onboarding/options", rt.Profile.GetOnboardingOptions)
		api.GET("/search", rt.Feed.Search)
		api.POST("/hooks/signup", rt.Profile.SignupHook)
		api.GET("/worker/status", rt.Feed.WorkerStatus)

		authed := api.Group("", rt.Verifier.Middleware())
		{
			authed.GET("/feed", rt.Feed.GetPersonalizedFeed)
			authed.GET("/profile", rt.Profile.GetProfile)
			authed.PUT("/profile", rt.Profile.UpdateProfile)
		}
	}

	// Admin routes (password protected)
	admin := r.Group("/admin", rt.Admin.AdminAuth())
	{
		admin.POST("/run/:job", rt.Admin.RunJob)
		admin.GET("/stats", rt.Admin.Stats)
		admin.GET("/sources", rt.Admin.Sources)
		admin.GET("/articles/failed", rt.Admin.FailedArticles)
		admin.POST("/articles/:id/process", rt.Admin.ProcessArticle)
	}

	return r
}
