package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/user/moviepicker/internal/config"
	"github.com/user/moviepicker/internal/handler"
	"github.com/user/moviepicker/internal/middleware"
)

// NewEngine 创建带公共中间件的 Gin 实例
func NewEngine(cfg *config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	r.GET("/health", handler.Health)
	return r
}

// RegisterRoutes 注册设备端路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	api := r.Group("/api")

	// ==================== 观影清单 ====================
	movies := api.Group("/movies")
	{
		movies.GET("", h.ListMovies)
		movies.POST("", h.AddMovie)
		movies.DELETE("", h.ClearMovies)
		movies.GET("/stats", h.MovieStats)
		movies.POST("/draw", h.DrawMovie)
		movies.GET("/:id", h.GetMovie)
		movies.PUT("/:id", h.UpdateMovie)
		movies.PUT("/:id/status", h.UpdateMovieStatus)
		movies.DELETE("/:id", h.RemoveMovie)
	}

	catalog := api.Group("/catalog")
	{
		catalog.GET("/platforms", h.Platforms)
		catalog.GET("/genres", h.Genres)
	}

	// ==================== TMDB ====================
	tmdb := api.Group("/tmdb")
	{
		tmdb.GET("/search", h.SearchTMDB)
		tmdb.GET("/movie/:id", h.TMDBDetails)
		tmdb.GET("/popular", h.PopularTMDB)
	}

	// ==================== 收藏与账号 ====================
	favorites := api.Group("/favorites")
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.DELETE("/:id", h.RemoveFavorite)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
		auth.GET("/status", h.AuthStatus)
	}

	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.UpdateProfile)
	api.GET("/preferences", h.GetPreferences)
	api.PUT("/preferences", h.SavePreferences)
	api.DELETE("/local", h.ResetLocalData)
}

// RegisterCloudRoutes 注册云端同步服务路由
func RegisterCloudRoutes(r *gin.Engine, h *handler.CloudHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	user := r.Group("/user")
	user.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		user.GET("/favorites", h.GetFavorites)
		user.POST("/favorites", h.SyncFavorites)
		user.GET("/profile", h.GetProfile)
		user.PUT("/profile", h.UpdateProfile)
	}
}
