package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/user/moviepicker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository 云端收藏，每个用户一份完整列表
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Replace 用新列表整体替换用户收藏
func (r *FavoriteRepository) Replace(ctx context.Context, userID string, favorites []model.Favorite) error {
	if favorites == nil {
		favorites = []model.Favorite{}
	}
	payload, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("序列化收藏失败: %w", err)
	}

	record := &model.CloudFavorites{
		UserID:    userID,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(record).Error
}

// ListByUser 获取用户收藏列表，从未同步过时返回空列表
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	var record model.CloudFavorites
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.Favorite{}, nil
	}
	if err != nil {
		return nil, err
	}

	favorites := []model.Favorite{}
	if err := json.Unmarshal([]byte(record.Payload), &favorites); err != nil {
		return nil, fmt.Errorf("解析收藏失败: %w", err)
	}
	return favorites, nil
}

// CountByUser 统计用户收藏数量
func (r *FavoriteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	favorites, err := r.ListByUser(ctx, userID)
	return len(favorites), err
}
