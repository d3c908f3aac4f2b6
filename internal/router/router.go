package router

import (
	"net/http"

	"jielong/internal/handlers"
	"jielong/internal/middleware"
	"jielong/internal/services"
	"jielong/internal/utils"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, svc *services.Services, cache *utils.Cache, jwtSecret []byte) {
	r.Use(middleware.LoadUser(jwtSecret, svc.Profiles))

	// Handlers
	sessionHandler := handlers.NewSessionHandler(jwtSecret)
	workHandler := handlers.NewWorkHandler(svc.Works, cache)
	contributionHandler := handlers.NewContributionHandler(svc.Contributions)
	voteHandler := handlers.NewVoteHandler(svc.Votes)
	profileHandler := handlers.NewProfileHandler(svc.Profiles)
	moderationHandler := handlers.NewModerationHandler(svc.Moderation)
	adminHandler := handlers.NewAdminHandler(svc.Moderation, svc.Votes)

	// 公共路由 (Public Routes)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/works", workHandler.List)           // 作品列表
	r.GET("/works/:id", workHandler.Detail)     // 作品详情
	r.GET("/works/:id/html", workHandler.HTML)  // 作品全文
	r.GET("/profiles/:id", profileHandler.Show) // 用户资料
	r.POST("/session", sessionHandler.Login)    // 令牌换会话
	r.POST("/logout", sessionHandler.Logout)    // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/works", workHandler.Create)                           // 发起作品
		authorized.PATCH("/works/:id", workHandler.Update)                      // 修改标题
		authorized.DELETE("/works/:id", workHandler.Delete)                     // 删除作品
		authorized.POST("/works/:id/contributions", contributionHandler.Create) // 接龙
		authorized.POST("/works/:id/votes", voteHandler.Vote)                   // 完结投票
		authorized.POST("/moderation/check", moderationHandler.Check)           // 屏蔽词预检
		authorized.PATCH("/profile/nickname", profileHandler.UpdateNickname)    // 修改昵称
	}

	// 管理路由 (Admin Routes)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.ModeratorRequired())
	{
		admin.GET("/blacklist", adminHandler.ListBlacklist)          // 屏蔽词列表
		admin.POST("/blacklist", adminHandler.AddBlacklist)          // 新增屏蔽词
		admin.DELETE("/blacklist/:id", adminHandler.DeleteBlacklist) // 删除屏蔽词
		admin.POST("/reconcile", adminHandler.Reconcile)             // 补救未完结作品
	}
}
