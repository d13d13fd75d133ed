package router

import (
	"fmt"

	"interviewhub/internal/config"
	"interviewhub/internal/handlers"
	"interviewhub/internal/logger"
	"interviewhub/internal/middleware"
	"interviewhub/internal/services"
	"interviewhub/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const cacheSize = 128

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Experience *handlers.ExperienceHandler
	Vote       *handlers.VoteHandler
	Comment    *handlers.CommentHandler
	Company    *handlers.CompanyHandler
	Health     *handlers.HealthHandler
}

// New builds the engine with its middleware chain, services and routes.
func New(cfg *config.Config, gdb *gorm.DB, log *logger.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	cache, err := utils.NewCache(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	details := !cfg.IsProduction()
	tracker := services.NewTracker(gdb, log)
	h := &Handlers{
		Experience: handlers.NewExperienceHandler(log, details, services.NewExperienceService(gdb, log, tracker), tracker),
		Vote:       handlers.NewVoteHandler(log, details, services.NewVoteService(gdb, log)),
		Comment:    handlers.NewCommentHandler(log, details, services.NewCommentService(gdb, log)),
		Company:    handlers.NewCompanyHandler(log, details, services.NewCompanyService(gdb, log, cache, cfg.CompanyCacheTTL)),
		Health:     handlers.NewHealthHandler(log, gdb),
	}

	// 中间件 (Middleware)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log.With("component", "http")))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Sessions(cfg.SessionSecret, cfg.IsProduction()))
	r.Use(middleware.VisitorSession(log))
	r.Use(middleware.LoadUser(gdb, cfg.JWTSecret, log))

	RegisterRoutes(r, h)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	// 公共路由 (Public Routes)
	r.GET("/health", h.Health.Health)              // 健康检查
	r.GET("/experiences", h.Experience.List)       // 面经列表
	r.GET("/experiences/:id", h.Experience.Detail) // 面经详情
	r.GET("/companies", h.Company.List)            // 公司列表

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/experiences", h.Experience.Create)          // 发布面经
		authorized.POST("/experiences/:id/vote", h.Vote.Vote)         // 投票 (toggle)
		authorized.POST("/experiences/:id/comment", h.Comment.Create) // 发表评论
		authorized.POST("/companies", h.Company.Create)               // 新增公司
	}
}
