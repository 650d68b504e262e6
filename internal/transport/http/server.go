package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "quillpost/internal/app"
	"quillpost/internal/bootstrap"
	"quillpost/internal/cache"
	"quillpost/internal/platform/rabbitmq"
	"quillpost/internal/repository"
	"quillpost/internal/transport/http/handler"
	"quillpost/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	logger := app.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	// optional backends stay nil interfaces when disabled
	var (
		revoker   appsvc.TokenRevoker
		checker   middleware.RevocationChecker
		counter   middleware.AttemptCounter
		publisher appsvc.EventPublisher
	)
	if app.Redis != nil {
		blocklist := cache.NewTokenBlocklist(app.Redis)
		revoker, checker = blocklist, blocklist
		counter = cache.NewAttemptCounter(app.Redis, "ratelimit")
	}
	if app.MQConn != nil {
		publisher = rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.PostEventsQueue)
	}

	userRepo := repository.NewUserRepository(app.DB)
	postRepo := repository.NewPostRepository(app.DB)
	auditRepo := repository.NewAuditLogRepository(app.DB)
	authService := appsvc.NewAuthService(
		userRepo,
		revoker,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	blogService := appsvc.NewBlogService(postRepo, userRepo, auditRepo, publisher, appsvc.BlogOptions{
		DefaultPageSize: app.Config.Blog.DefaultPageSize,
		MaxPageSize:     app.Config.Blog.MaxPageSize,
		ListCountsReads: app.Config.Blog.ListCountsReads,
	})
	authHandler := handler.NewAuthHandler(authService, blogService)
	blogHandler := handler.NewBlogHandler(blogService)

	secret := app.Config.Auth.JWTSecret
	requireAuth := middleware.AuthJWT(secret, checker)
	optionalAuth := middleware.OptionalJWT(secret, checker)
	authLimit := middleware.RateLimit(
		counter,
		"auth",
		app.Config.RateLimit.AuthAttempts,
		time.Duration(app.Config.RateLimit.AuthWindowSeconds)*time.Second,
	)

	users := router.Group("/users")
	users.POST("/signup", authLimit, authHandler.Signup)
	users.POST("/login", authLimit, authHandler.Login)
	users.POST("/logout", requireAuth, authHandler.Logout)
	users.GET("/me", requireAuth, authHandler.Me)
	users.GET("/me/blogs", requireAuth, authHandler.MyBlogs)

	blogs := router.Group("/blogs")
	blogs.GET("", optionalAuth, blogHandler.List)
	blogs.GET("/:id", optionalAuth, blogHandler.Get)
	blogs.GET("/:id/export", optionalAuth, blogHandler.Export)
	blogs.GET("/:id/audit", requireAuth, blogHandler.Audit)
	blogs.POST("", requireAuth, blogHandler.Create)
	blogs.PUT("/:id", requireAuth, blogHandler.Update)
	blogs.PUT("/:id/publish", requireAuth, blogHandler.Publish)
	blogs.DELETE("/:id", requireAuth, blogHandler.Delete)

	return router
}
