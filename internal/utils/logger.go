package utils

import (
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger 配置日志输出；logFile 非空时同时写入滚动日志文件
func SetupLogger(logFile string) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if logFile == "" {
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     30, // 天
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	gin.DefaultWriter = io.MultiWriter(os.Stdout, rotator)
	gin.DefaultErrorWriter = io.MultiWriter(os.Stderr, rotator)
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
