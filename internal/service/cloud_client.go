package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/user/moviepicker/internal/model"
	"github.com/user/moviepicker/internal/utils"
)

// 网络不可达时返回给调用方的提示
const connectionErrorMessage = "Erro de conexão"

// CloudClient 云端同步服务客户端
type CloudClient struct {
	baseURL string
	client  *utils.HTTPClient
}

func NewCloudClient(baseURL string, client *utils.HTTPClient) *CloudClient {
	return &CloudClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type cloudAuthResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token"`
	User    *model.CloudUser `json:"user"`
	Message string           `json:"message"`
}

type cloudFavoritesPayload struct {
	Favorites []model.Favorite `json:"favorites"`
}

type cloudProfileResponse struct {
	Success bool           `json:"success"`
	Profile *model.Profile `json:"profile"`
}

// Login 邮箱密码登录；失败原因写入 Error
func (c *CloudClient) Login(ctx context.Context, email, password string) model.LoginResult {
	var resp cloudAuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.client.DoJSON(ctx, http.MethodPost, c.baseURL+"/auth/login", "", body, &resp); err != nil {
		log.Printf("[Cloud] 登录失败: %v", err)
		return model.LoginResult{Error: remoteMessage(err), Err: err}
	}
	if resp.Token == "" {
		return model.LoginResult{Error: resp.Message}
	}
	return model.LoginResult{Success: true, Token: resp.Token, User: resp.User}
}

// Register 注册新用户
func (c *CloudClient) Register(ctx context.Context, email, password, name string) model.RegisterResult {
	var resp cloudAuthResponse
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.client.DoJSON(ctx, http.MethodPost, c.baseURL+"/auth/register", "", body, &resp); err != nil {
		log.Printf("[Cloud] 注册失败: %v", err)
		return model.RegisterResult{Error: remoteMessage(err)}
	}
	return model.RegisterResult{Success: resp.Success, User: resp.User, Error: resp.Message}
}

// SyncFavorites 用本地列表覆盖云端收藏
func (c *CloudClient) SyncFavorites(ctx context.Context, token string, favorites []model.Favorite) error {
	if favorites == nil {
		favorites = []model.Favorite{}
	}
	payload := cloudFavoritesPayload{Favorites: favorites}
	if err := c.client.DoJSON(ctx, http.MethodPost, c.baseURL+"/user/favorites", token, payload, nil); err != nil {
		return fmt.Errorf("同步收藏失败: %w", err)
	}
	log.Printf("[Cloud] 已同步 %d 条收藏到云端", len(favorites))
	return nil
}

// GetFavorites 获取云端收藏
func (c *CloudClient) GetFavorites(ctx context.Context, token string) ([]model.Favorite, error) {
	var resp cloudFavoritesPayload
	if err := c.client.DoJSON(ctx, http.MethodGet, c.baseURL+"/user/favorites", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("获取云端收藏失败: %w", err)
	}
	if resp.Favorites == nil {
		return []model.Favorite{}, nil
	}
	return resp.Favorites, nil
}

// GetProfile 获取用户资料
func (c *CloudClient) GetProfile(ctx context.Context, token string) (*model.Profile, error) {
	var resp cloudProfileResponse
	if err := c.client.DoJSON(ctx, http.MethodGet, c.baseURL+"/user/profile", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("获取资料失败: %w", err)
	}
	return resp.Profile, nil
}

// UpdateProfile 更新用户资料
func (c *CloudClient) UpdateProfile(ctx context.Context, token string, profile model.Profile) (*model.Profile, error) {
	var resp cloudProfileResponse
	if err := c.client.DoJSON(ctx, http.MethodPut, c.baseURL+"/user/profile", token, profile, &resp); err != nil {
		return nil, fmt.Errorf("更新资料失败: %w", err)
	}
	return resp.Profile, nil
}

// remoteMessage 提取服务端返回的错误信息，网络错误统一为连接错误
func remoteMessage(err error) string {
	var se *utils.StatusError
	if !errors.As(err, &se) {
		return connectionErrorMessage
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(se.Body, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("HTTP %d", se.StatusCode)
}
