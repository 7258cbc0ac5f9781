package service

import (
	"context"
	"log"

	"github.com/user/moviepicker/internal/model"
)

const (
	favoritesKey   = "favorites"
	preferencesKey = "preferences"
	authTokenKey   = "authToken"
)

// LocalStorage 设备本地的收藏与偏好
type LocalStorage struct {
	store KeyValueStore
}

func NewLocalStorage(store KeyValueStore) *LocalStorage {
	return &LocalStorage{store: store}
}

// GetFavorites 读取本地收藏，失败时返回空列表
func (l *LocalStorage) GetFavorites(ctx context.Context) []model.Favorite {
	favorites, err := l.loadFavorites(ctx)
	if err != nil {
		log.Printf("[LocalStorage] 读取收藏失败: %v", err)
		return []model.Favorite{}
	}
	return favorites
}

func (l *LocalStorage) loadFavorites(ctx context.Context) ([]model.Favorite, error) {
	favorites := []model.Favorite{}
	if _, err := getJSON(ctx, l.store, favoritesKey, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// SaveFavorites 覆盖保存本地收藏
func (l *LocalStorage) SaveFavorites(ctx context.Context, favorites []model.Favorite) error {
	if favorites == nil {
		favorites = []model.Favorite{}
	}
	return setJSON(ctx, l.store, favoritesKey, favorites)
}

// SavePreferences 保存偏好
func (l *LocalStorage) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	return setJSON(ctx, l.store, preferencesKey, prefs)
}

// GetPreferences 读取偏好，未保存或读取失败时返回默认值
func (l *LocalStorage) GetPreferences(ctx context.Context) model.Preferences {
	prefs := model.DefaultPreferences()
	found, err := getJSON(ctx, l.store, preferencesKey, &prefs)
	if err != nil {
		log.Printf("[LocalStorage] 读取偏好失败: %v", err)
		return model.DefaultPreferences()
	}
	if !found {
		return model.DefaultPreferences()
	}
	return prefs
}

// SecureStorage 登录凭证
type SecureStorage struct {
	store SecretStore
}

func NewSecureStorage(store SecretStore) *SecureStorage {
	return &SecureStorage{store: store}
}

// SaveAuthToken 保存登录 Token
func (s *SecureStorage) SaveAuthToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, authTokenKey, token)
}

// GetAuthToken 读取登录 Token，不存在或读取失败时返回空字符串
func (s *SecureStorage) GetAuthToken(ctx context.Context) string {
	token, ok, err := s.store.Get(ctx, authTokenKey)
	if err != nil {
		log.Printf("[SecureStorage] 读取 Token 失败: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// DeleteAuthToken 删除登录 Token
func (s *SecureStorage) DeleteAuthToken(ctx context.Context) error {
	return s.store.Delete(ctx, authTokenKey)
}
