package router

import (
	"log/slog"
	"time"

	"Cerezo_Blog/internal/config"
	"Cerezo_Blog/internal/handler"
	"Cerezo_Blog/internal/middleware"
	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
	"Cerezo_Blog/internal/repository/redis"
	"Cerezo_Blog/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps 外部资源由调用方创建
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *goredis.Client
	Store  pkg.BlobStore
	Mailer pkg.Mailer
	Logger *slog.Logger
}

func InitRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tokens := pkg.NewTokenAuthority(cfg.JWT.Secret, cfg.JWT.TTL)
	sessions := redis.NewSessionRepository(d.Redis, tokens.TTL())
	uploader := pkg.NewUploader(d.Store, cfg.Upload.TempDir)
	notifier := service.NewNotifier(d.Mailer)

	userRepo := &mysql.UserRepository{DB: d.DB}
	postRepo := &mysql.PostRepository{DB: d.DB}
	engagementRepo := &mysql.EngagementRepository{DB: d.DB}

	engagement := service.NewEngagementService(engagementRepo)
	auth := handler.NewAuthHandler(service.NewAuthService(userRepo, sessions, tokens, notifier))
	user := handler.NewUserHandler(service.NewUserService(userRepo, sessions, notifier))
	post := handler.NewPostHandler(service.NewPostService(postRepo, engagementRepo, uploader, cfg.Upload.MaxImageBytes), engagement)
	comment := handler.NewCommentHandler(service.NewCommentService(&mysql.CommentRepository{DB: d.DB}, postRepo, engagementRepo), engagement)
	book := handler.NewBookHandler(service.NewBookService(&mysql.BookRepository{DB: d.DB}, uploader, cfg.Upload.MaxImageBytes))
	event := handler.NewEventHandler(service.NewEventService(&mysql.EventRepository{DB: d.DB}, uploader,
		cfg.Upload.MaxImageBytes, cfg.Upload.MaxEventMedia), engagement)

	guard := middleware.NewGuard(tokens, userRepo, sessions)
	authed := guard.Authenticate()
	admin := middleware.RequireRole(model.RoleAdmin)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), corsMiddleware(cfg.Server.CORSOrigins))
	r.Use(middleware.ErrorHandler(cfg.IsProduction()))
	r.NoRoute(middleware.NotFound)

	// 登录注册
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.DELETE("/logout", authed, auth.Logout)
	}

	// 用户相关接口
	userGroup := r.Group("/api/users", authed)
	{
		userGroup.GET("/profile", user.Profile)
		userGroup.PUT("/profile", user.UpdateProfile)
		userGroup.GET("", admin, user.List)
		userGroup.DELETE("/:id", admin, user.Delete)
		userGroup.PATCH("/:id/block", admin, user.ToggleBlock)
	}

	// 帖子与评论
	postGroup := r.Group("/api/posts")
	{
		postGroup.GET("", post.List)
		postGroup.GET("/:id", guard.Optional(), post.Get)
		postGroup.POST("", authed, admin, post.Create)
		postGroup.PUT("/:id", authed, admin, post.Update)
		postGroup.DELETE("/:id", authed, admin, post.Delete)
		postGroup.PUT("/:id/like", authed, post.ToggleLike)
		postGroup.POST("/:id/comments", authed, comment.Create)
		postGroup.GET("/:id/comments", comment.List)
	}
	r.PUT("/api/comments/:id/like", authed, comment.ToggleLike)

	// 活动
	eventGroup := r.Group("/api/events")
	{
		eventGroup.GET("", event.List)
		eventGroup.POST("", authed, admin, event.Create)
		eventGroup.PUT("/:id", authed, admin, event.Update)
		eventGroup.DELETE("/:id", authed, admin, event.Delete)
		eventGroup.POST("/:id/attend", authed, event.Attend)
	}

	// 书籍
	bookGroup := r.Group("/api/books")
	{
		bookGroup.GET("", book.List)
		bookGroup.POST("", authed, admin, book.Create)
		bookGroup.PUT("/:id", authed, admin, book.Update)
		bookGroup.DELETE("/:id", authed, admin, book.Delete)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
