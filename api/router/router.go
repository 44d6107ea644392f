package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"posts-api/api/handlers"
	"posts-api/api/middleware"
	"posts-api/config"
	_ "posts-api/docs"
	"posts-api/services"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	Posts   *services.PostService
	Storage string
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	r.GET("/health", handlers.HealthHandler(deps.Posts, deps.Storage))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/posts", handlers.CreatePostHandler(deps.Posts))
		api.GET("/posts", handlers.ListPostsHandler(deps.Posts))
		api.GET("/posts/:id", handlers.GetPostHandler(deps.Posts))
		api.PATCH("/posts/:id", handlers.UpdatePostHandler(deps.Posts))
		api.PUT("/posts/:id", handlers.UpdatePostHandler(deps.Posts))
		api.DELETE("/posts/:id", handlers.DeletePostHandler(deps.Posts))
	}

	return r
}

// WithCORS wraps h with the configured CORS policy. An empty origin list
// leaves h unwrapped.
func WithCORS(h http.Handler, cfg config.CORSConfig) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	}).Handler(h)
}
