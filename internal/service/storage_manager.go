package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/user/moviepicker/internal/model"
)

// CloudAPI 云端同步接口，CloudClient 为默认实现
type CloudAPI interface {
	Login(ctx context.Context, email, password string) model.LoginResult
	Register(ctx context.Context, email, password, name string) model.RegisterResult
	SyncFavorites(ctx context.Context, token string, favorites []model.Favorite) error
	GetFavorites(ctx context.Context, token string) ([]model.Favorite, error)
	GetProfile(ctx context.Context, token string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, token string, profile model.Profile) (*model.Profile, error)
}

var (
	ErrNotLoggedIn       = errors.New("usuário não autenticado")
	ErrFavoriteNoID      = errors.New("favorito sem id")
	ErrDuplicateFavorite = errors.New("favorito duplicado")
	// ErrSessionStore 登录成功但 Token 无法保存
	ErrSessionStore = errors.New("falha ao salvar sessão")
)

// StorageManager 收藏的本地/云端混合存储
// 未登录时本地为准；登录成功后合并一次，之后以云端为准
type StorageManager struct {
	local  *LocalStorage
	secure *SecureStorage
	cloud  CloudAPI
}

func NewStorageManager(local *LocalStorage, secure *SecureStorage, cloud CloudAPI) *StorageManager {
	return &StorageManager{local: local, secure: secure, cloud: cloud}
}

// AddFavorite 添加收藏；id 重复时拒绝。有 token 时尽力同步到云端，失败不回滚
func (m *StorageManager) AddFavorite(ctx context.Context, movie model.Favorite, token string) model.FavoritesResult {
	if _, ok := movie.Key(); !ok {
		return model.FavoritesResult{Message: "Favorito sem id", Err: ErrFavoriteNoID}
	}

	favorites, err := m.local.loadFavorites(ctx)
	if err != nil {
		log.Printf("[Storage] 读取本地收藏失败: %v", err)
		return model.FavoritesResult{Message: "Erro ao adicionar favorito", Err: err}
	}
	for _, f := range favorites {
		if f.SameID(movie) {
			return model.FavoritesResult{Message: "Filme já está nos favoritos", Err: ErrDuplicateFavorite}
		}
	}

	favorites = append(favorites, movie)
	if err := m.local.SaveFavorites(ctx, favorites); err != nil {
		log.Printf("[Storage] 保存本地收藏失败: %v", err)
		return model.FavoritesResult{Message: "Erro ao adicionar favorito", Err: err}
	}

	m.pushFavorites(ctx, token, favorites)
	return model.FavoritesResult{Success: true, Favorites: favorites}
}

// RemoveFavorite 删除收藏，不存在的 id 视为成功
func (m *StorageManager) RemoveFavorite(ctx context.Context, id any, token string) model.FavoritesResult {
	target := model.Favorite{"id": id}

	favorites, err := m.local.loadFavorites(ctx)
	if err != nil {
		log.Printf("[Storage] 读取本地收藏失败: %v", err)
		return model.FavoritesResult{Message: "Erro ao remover favorito", Err: err}
	}

	filtered := make([]model.Favorite, 0, len(favorites))
	for _, f := range favorites {
		if !f.SameID(target) {
			filtered = append(filtered, f)
		}
	}

	if err := m.local.SaveFavorites(ctx, filtered); err != nil {
		log.Printf("[Storage] 保存本地收藏失败: %v", err)
		return model.FavoritesResult{Message: "Erro ao remover favorito", Err: err}
	}

	m.pushFavorites(ctx, token, filtered)
	return model.FavoritesResult{Success: true, Favorites: filtered}
}

// GetFavorites 有 token 且云端非空时以云端为准并覆盖本地缓存，否则返回本地收藏
func (m *StorageManager) GetFavorites(ctx context.Context, token string) []model.Favorite {
	if token != "" {
		remote, err := m.cloud.GetFavorites(ctx, token)
		switch {
		case err != nil:
			log.Printf("[Storage] %v，使用本地收藏", err)
		case len(remote) > 0:
			if err := m.local.SaveFavorites(ctx, remote); err != nil {
				log.Printf("[Storage] 缓存云端收藏失败: %v", err)
			}
			return remote
		}
	}
	return m.local.GetFavorites(ctx)
}

// Login 登录并保存 token，随后合并一次本地与云端收藏
func (m *StorageManager) Login(ctx context.Context, email, password string) model.LoginResult {
	result := m.cloud.Login(ctx, email, password)
	if !result.Success {
		return result
	}

	if err := m.secure.SaveAuthToken(ctx, result.Token); err != nil {
		log.Printf("[Storage] 保存 Token 失败: %v", err)
		return model.LoginResult{Error: "Erro ao salvar sessão", Err: fmt.Errorf("%w: %v", ErrSessionStore, err)}
	}

	m.mergeOnLogin(ctx, result.Token)
	return result
}

func (m *StorageManager) mergeOnLogin(ctx context.Context, token string) {
	remote, err := m.cloud.GetFavorites(ctx, token)
	if err != nil {
		// 云端不可用时不合并，避免用本地列表覆盖云端
		log.Printf("[Storage] 登录合并跳过: %v", err)
		return
	}
	local, err := m.local.loadFavorites(ctx)
	if err != nil {
		log.Printf("[Storage] 登录合并跳过: %v", err)
		return
	}

	merged := MergeFavorites(remote, local)
	if err := m.local.SaveFavorites(ctx, merged); err != nil {
		log.Printf("[Storage] 保存合并收藏失败: %v", err)
	}
	if err := m.cloud.SyncFavorites(ctx, token, merged); err != nil {
		log.Printf("[Storage] %v", err)
	}
	log.Printf("[Storage] 登录合并完成: 云端 %d 条, 本地 %d 条, 合并后 %d 条", len(remote), len(local), len(merged))
}

// Register 注册，不自动登录
func (m *StorageManager) Register(ctx context.Context, email, password, name string) model.RegisterResult {
	return m.cloud.Register(ctx, email, password, name)
}

// Logout 只删除 token，本地收藏与偏好保留
func (m *StorageManager) Logout(ctx context.Context) error {
	if err := m.secure.DeleteAuthToken(ctx); err != nil {
		log.Printf("[Storage] 删除 Token 失败: %v", err)
		return err
	}
	return nil
}

// IsLoggedIn 是否存在 token
func (m *StorageManager) IsLoggedIn(ctx context.Context) bool {
	return m.Token(ctx) != ""
}

// Token 当前保存的 token，未登录时为空
func (m *StorageManager) Token(ctx context.Context) string {
	return m.secure.GetAuthToken(ctx)
}

// GetProfile 获取云端资料，需要已登录
func (m *StorageManager) GetProfile(ctx context.Context) (*model.Profile, error) {
	token := m.Token(ctx)
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	return m.cloud.GetProfile(ctx, token)
}

// UpdateProfile 更新云端资料，需要已登录
func (m *StorageManager) UpdateProfile(ctx context.Context, profile model.Profile) (*model.Profile, error) {
	token := m.Token(ctx)
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	return m.cloud.UpdateProfile(ctx, token, profile)
}

func (m *StorageManager) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	return m.local.SavePreferences(ctx, prefs)
}

func (m *StorageManager) GetPreferences(ctx context.Context) model.Preferences {
	return m.local.GetPreferences(ctx)
}

func (m *StorageManager) pushFavorites(ctx context.Context, token string, favorites []model.Favorite) {
	if token == "" {
		return
	}
	if err := m.cloud.SyncFavorites(ctx, token, favorites); err != nil {
		log.Printf("[Storage] %v", err)
	}
}

// MergeFavorites 云端在前保持原顺序，追加 id 未出现在云端的本地收藏
// 同一来源内部的重复 id 不做去重
func MergeFavorites(remote, local []model.Favorite) []model.Favorite {
	seen := make(map[string]struct{}, len(remote))
	merged := make([]model.Favorite, 0, len(remote)+len(local))
	for _, f := range remote {
		if key, ok := f.Key(); ok {
			seen[key] = struct{}{}
		}
		merged = append(merged, f)
	}
	for _, f := range local {
		if key, ok := f.Key(); ok {
			if _, dup := seen[key]; dup {
				continue
			}
		}
		merged = append(merged, f)
	}
	return merged
}
