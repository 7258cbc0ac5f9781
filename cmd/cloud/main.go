package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/moviepicker/internal/config"
	"github.com/user/moviepicker/internal/handler"
	"github.com/user/moviepicker/internal/repository"
	"github.com/user/moviepicker/internal/router"
	"github.com/user/moviepicker/internal/utils"
)

// 云端同步服务：账号、收藏备份、用户资料
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	logCloser := utils.SetupLogger(cfg.LogFile)
	defer logCloser.Close()

	db, err := repository.InitDB(cfg.DBDriver, cfg.CloudDatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db, repository.CloudModels()...); err != nil {
		log.Fatalf("%v", err)
	}

	repos, err := repository.NewRepositories(db, cfg.AppSecret)
	if err != nil {
		log.Fatalf("初始化仓库失败: %v", err)
	}

	r := router.NewEngine(cfg)
	router.RegisterCloudRoutes(r, handler.NewCloudHandler(repos, cfg))

	srv := &http.Server{
		Addr:           ":" + cfg.CloudPort,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("云端同步服务启动于 http://localhost:%s", cfg.CloudPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭云端同步服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("云端同步服务已退出")
}
