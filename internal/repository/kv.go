package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/moviepicker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository 本地键值存储
type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get 读取键值，键不存在时 ok 为 false
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.KVEntry
	err := r.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取 %s 失败: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set 写入键值（存在则覆盖）
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	entry := &model.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("写入 %s 失败: %w", key, err)
	}
	return nil
}

// Remove 删除键，键不存在时不报错
func (r *KVRepository) Remove(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&model.KVEntry{}).Error; err != nil {
		return fmt.Errorf("删除 %s 失败: %w", key, err)
	}
	return nil
}

// Clear 清空所有键值（不影响敏感数据表）
func (r *KVRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.KVEntry{}).Error; err != nil {
		return fmt.Errorf("清空键值失败: %w", err)
	}
	return nil
}

// Keys 列出所有键
func (r *KVRepository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&model.KVEntry{}).Order("entry_key ASC").Pluck("entry_key", &keys).Error
	return keys, err
}
