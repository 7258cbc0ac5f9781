package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// 未配置 TMDB Key 时的占位值
const tmdbKeyPlaceholder = "SUA_API_KEY_AQUI"

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DBDriver    string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string
	CloudPort   string
	LogFile     string

	// 云端同步服务的数据库；postgres 时与 DatabaseURL 相同
	CloudDatabaseURL string

	// TMDB
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBLanguage     string
	SearchCacheSize  int
	SearchCacheTTL   time.Duration

	// 云端同步服务地址
	CloudAPIURL string
	HTTPTimeout time.Duration
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	timeoutSeconds, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "30"))
	cacheSize, _ := strconv.Atoi(getEnv("SEARCH_CACHE_SIZE", "500"))
	cacheMinutes, _ := strconv.Atoi(getEnv("SEARCH_CACHE_TTL_MINUTES", "60"))
	// go-cache 的 0 表示永不过期，两级缓存统一按至少 1 分钟处理
	cacheMinutes = max(cacheMinutes, 1)

	driver := getEnv("DB_DRIVER", "sqlite")
	var dbURL, cloudDBURL string
	if driver == "postgres" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "moviepicker")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
		cloudDBURL = dbURL
	} else {
		dbURL = getEnv("DB_PATH", defaultDBPath("data.db"))
		cloudDBURL = getEnv("CLOUD_DB_PATH", defaultDBPath("cloud.db"))
	}

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", "your-secret-key-change-in-production"))

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:              getEnv("APP_ENV", "development"),
		AppSecret:        appSecret,
		DBDriver:         driver,
		DatabaseURL:      dbURL,
		CloudDatabaseURL: cloudDBURL,
		JWTExpiry:        time.Duration(expiryHours) * time.Hour,
		Port:             getEnv("PORT", "5005"),
		CloudPort:        getEnv("CLOUD_PORT", "5006"),
		LogFile:          getEnv("LOG_FILE", ""),
		TMDBAPIKey:       getEnv("TMDB_API_KEY", tmdbKeyPlaceholder),
		TMDBBaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		TMDBLanguage:     getEnv("TMDB_LANGUAGE", "pt-BR"),
		SearchCacheSize:  cacheSize,
		SearchCacheTTL:   time.Duration(cacheMinutes) * time.Minute,
		CloudAPIURL:      getEnv("CLOUD_API_URL", "http://localhost:5006"),
		HTTPTimeout:      time.Duration(timeoutSeconds) * time.Second,
	}
}

// TMDBConfigured 判断 TMDB API Key 是否已配置
func (c *Config) TMDBConfigured() bool {
	return c.TMDBAPIKey != "" &&
		c.TMDBAPIKey != tmdbKeyPlaceholder &&
		len(c.TMDBAPIKey) > 10
}

// 本地默认数据库目录：~/.moviepicker
func defaultDBPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".moviepicker", name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
