package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/joho/godotenv"
	"github.com/user/moviepicker/internal/config"
	"github.com/user/moviepicker/internal/handler"
	"github.com/user/moviepicker/internal/repository"
	"github.com/user/moviepicker/internal/router"
	"github.com/user/moviepicker/internal/utils"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	logCloser := utils.SetupLogger(cfg.LogFile)
	defer logCloser.Close()

	// 初始化本地数据库（键值存储 + 加密凭证）
	db, err := repository.InitDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db, repository.DeviceModels()...); err != nil {
		log.Fatalf("%v", err)
	}

	// 初始化仓库
	repos, err := repository.NewRepositories(db, cfg.AppSecret)
	if err != nil {
		log.Fatalf("初始化仓库失败: %v", err)
	}

	if !cfg.TMDBConfigured() {
		log.Println("[TMDB] API Key 未配置，搜索功能不可用")
	}

	// 初始化 Gin 与路由
	r := router.NewEngine(cfg)
	router.RegisterRoutes(r, handler.NewHandler(repos, cfg))

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.HTTPTimeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
