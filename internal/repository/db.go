package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/user/moviepicker/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接，driver 为 sqlite 或 postgres
func InitDB(driver, databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(databaseURL)
	case "sqlite", "":
		if dir := filepath.Dir(databaseURL); databaseURL != ":memory:" && dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", err)
			}
		}
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池；sqlite 单连接避免写锁竞争（内存库也只在单连接内可见）
	if driver == "postgres" {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// DeviceModels 本地端数据表
func DeviceModels() []any {
	return []any{&model.KVEntry{}, &model.SecureEntry{}}
}

// CloudModels 云端同步服务数据表
func CloudModels() []any {
	return []any{&model.User{}, &model.CloudFavorites{}, &model.Profile{}}
}

// Migrate 自动建表
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("数据表迁移失败: %w", err)
	}
	return nil
}

// Repositories 仓库集合
type Repositories struct {
	DB       *gorm.DB
	KV       *KVRepository
	Secure   *SecureRepository
	User     *UserRepository
	Favorite *FavoriteRepository
	Profile  *ProfileRepository
}

// NewRepositories 创建仓库集合，secret 用于派生敏感数据的加密密钥
func NewRepositories(db *gorm.DB, secret string) (*Repositories, error) {
	secure, err := NewSecureRepository(db, secret)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		DB:       db,
		KV:       NewKVRepository(db),
		Secure:   secure,
		User:     NewUserRepository(db),
		Favorite: NewFavoriteRepository(db),
		Profile:  NewProfileRepository(db),
	}, nil
}
