package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkwell/internal/cache"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
)

// IndexCachePrefix 首页缓存键前缀
const IndexCachePrefix = "index_page"

// Deps is everything the routes need. All fields are required.
type Deps struct {
	Feed     *services.FeedService
	Content  *services.ContentService
	Subs     *services.SubscriptionService
	Groups   *services.GroupService
	Auth     *services.AuthService
	Cache    cache.PageCache
	CacheTTL time.Duration
	Log      *zap.Logger
}

func NewDeps(reg *services.Registry, pc cache.PageCache, ttl time.Duration, log *zap.Logger) Deps {
	return Deps{
		Feed:     reg.Feed,
		Content:  reg.Content,
		Subs:     reg.Subs,
		Groups:   reg.Groups,
		Auth:     reg.Auth,
		Cache:    pc,
		CacheTTL: ttl,
		Log:      log,
	}
}

// RegisterRoutes mounts every page. Session and LoadUser middleware must
// already be installed on r.
func RegisterRoutes(r *gin.Engine, d Deps) {
	postHandler := handlers.NewPostHandler(d.Feed, d.Content, d.Subs, d.Groups, d.Log)
	followHandler := handlers.NewFollowHandler(d.Feed, d.Subs, d.Log)
	authHandler := handlers.NewAuthHandler(d.Auth, d.Log)
	adminHandler := handlers.NewAdminHandler(d.Cache, d.Groups, d.Log)

	// 公共路由 (Public Routes)
	r.GET("/", middleware.CachePage(d.Cache, IndexCachePrefix, d.CacheTTL, d.Log), postHandler.Index) // 首页，带缓存
	r.GET("/group/:slug/", postHandler.GroupPosts)
	r.GET("/profile/:username/", postHandler.Profile)
	r.GET("/posts/:id/", postHandler.Detail)

	r.GET("/about/author/", handlers.AboutAuthor)
	r.GET("/about/tech/", handlers.AboutTech)

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup)
		auth.POST("/signup/", authHandler.Signup)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.GET("/logout/", authHandler.Logout)
		auth.POST("/logout/", authHandler.Logout)
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)
		authorized.POST("/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Update)
		authorized.Match([]string{http.MethodGet, http.MethodPost}, "/posts/:id/delete/", postHandler.Delete)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)
		authorized.Match([]string{http.MethodGet, http.MethodPost}, "/comments/:id/delete/", postHandler.DeleteComment)

		authorized.GET("/follow/", followHandler.Index)
		authorized.Match([]string{http.MethodGet, http.MethodPost}, "/profile/:username/follow/", followHandler.Follow)
		authorized.Match([]string{http.MethodGet, http.MethodPost}, "/profile/:username/unfollow/", followHandler.Unfollow)

		authorized.GET("/auth/password_change/", authHandler.ShowPasswordChange)
		authorized.POST("/auth/password_change/", authHandler.PasswordChange)
		authorized.GET("/auth/password_change/done/", authHandler.PasswordChangeDone)
	}

	// 管理路由 (Staff Routes)
	admin := r.Group("/admin")
	admin.Use(middleware.StaffRequired(handlers.Forbidden))
	{
		admin.POST("/cache/clear", adminHandler.ClearCache)
		admin.POST("/groups", adminHandler.CreateGroup)
		admin.DELETE("/groups/:slug", adminHandler.DeleteGroup)
	}

	r.NoRoute(handlers.NotFound)
}
