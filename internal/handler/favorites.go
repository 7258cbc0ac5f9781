package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepicker/internal/model"
	"github.com/user/moviepicker/internal/service"
	"github.com/user/moviepicker/internal/utils"
)

// ListFavorites 收藏列表；已登录时优先使用云端数据
func (h *Handler) ListFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	utils.Success(c, h.Storage.GetFavorites(ctx, h.Storage.Token(ctx)))
}

// AddFavorite 添加收藏，结构由客户端决定，重复 id 返回 409，存储失败返回 500
func (h *Handler) AddFavorite(c *gin.Context) {
	var favorite model.Favorite
	if err := json.NewDecoder(c.Request.Body).Decode(&favorite); err != nil || favorite == nil {
		utils.BadRequest(c, "JSON inválido")
		return
	}

	ctx := c.Request.Context()
	result := h.Storage.AddFavorite(ctx, favorite, h.Storage.Token(ctx))
	switch {
	case result.Success:
		utils.Created(c, result.Favorites)
	case errors.Is(result.Err, service.ErrDuplicateFavorite):
		utils.Error(c, http.StatusConflict, result.Message)
	case errors.Is(result.Err, service.ErrFavoriteNoID):
		utils.BadRequest(c, result.Message)
	default:
		utils.InternalServerError(c, result.Message)
	}
}

// RemoveFavorite 删除收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	result := h.Storage.RemoveFavorite(ctx, favoriteID(c.Param("id")), h.Storage.Token(ctx))
	if !result.Success {
		utils.InternalServerError(c, result.Message)
		return
	}
	utils.Success(c, result.Favorites)
}

// favoriteID 路径参数能按 JSON 数字解析时视为数字 id，否则为字符串 id
func favoriteID(raw string) any {
	var n float64
	if err := json.Unmarshal([]byte(raw), &n); err == nil {
		return n
	}
	return raw
}
