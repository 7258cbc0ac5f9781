package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepicker/internal/model"
	"github.com/user/moviepicker/internal/service"
	"github.com/user/moviepicker/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

// Login 云端登录，成功后保存 Token 并合并收藏
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result := h.Storage.Login(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		h.writeLoginFailure(c, result)
		return
	}
	utils.SuccessWithMessage(c, "Login realizado", gin.H{"user": result.User})
}

// writeLoginFailure 云端拒绝返回 401，云端不可达返回 502
func (h *Handler) writeLoginFailure(c *gin.Context, result model.LoginResult) {
	var se *utils.StatusError
	switch {
	case result.Err == nil, errors.As(result.Err, &se):
		utils.Unauthorized(c, result.Error)
	case errors.Is(result.Err, service.ErrSessionStore):
		utils.InternalServerError(c, result.Error)
	default:
		utils.Error(c, http.StatusBadGateway, result.Error)
	}
}

// Register 云端注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result := h.Storage.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if !result.Success {
		utils.BadRequest(c, result.Error)
		return
	}
	utils.Created(c, result.User)
}

// Logout 退出登录，本地收藏与偏好保留
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Storage.Logout(c.Request.Context()); err != nil {
		utils.InternalServerError(c, "Não foi possível sair")
		return
	}
	utils.SuccessWithMessage(c, "Logout realizado", nil)
}

// AuthStatus 是否已登录
func (h *Handler) AuthStatus(c *gin.Context) {
	utils.Success(c, gin.H{"loggedIn": h.Storage.IsLoggedIn(c.Request.Context())})
}

// GetProfile 云端资料
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.Storage.GetProfile(c.Request.Context())
	h.writeProfile(c, profile, err)
}

// UpdateProfile 更新云端资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		badBinding(c, err)
		return
	}
	updated, err := h.Storage.UpdateProfile(c.Request.Context(), profile)
	h.writeProfile(c, updated, err)
}

func (h *Handler) writeProfile(c *gin.Context, profile *model.Profile, err error) {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		utils.Unauthorized(c, "")
	case utils.IsStatus(err, http.StatusUnauthorized):
		utils.Unauthorized(c, "Sessão expirada")
	case err != nil:
		utils.Error(c, http.StatusBadGateway, "Erro de conexão")
	default:
		utils.Success(c, profile)
	}
}

// GetPreferences 本地偏好
func (h *Handler) GetPreferences(c *gin.Context) {
	utils.Success(c, h.Storage.GetPreferences(c.Request.Context()))
}

// SavePreferences 保存本地偏好
func (h *Handler) SavePreferences(c *gin.Context) {
	prefs := h.Storage.GetPreferences(c.Request.Context())
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badBinding(c, err)
		return
	}
	if err := h.Storage.SavePreferences(c.Request.Context(), prefs); err != nil {
		utils.InternalServerError(c, "Não foi possível salvar as preferências")
		return
	}
	utils.Success(c, prefs)
}

// ResetLocalData 清除设备上的清单、收藏与偏好，登录 Token 保留
func (h *Handler) ResetLocalData(c *gin.Context) {
	if err := h.Local.Clear(c.Request.Context()); err != nil {
		log.Printf("[LocalStorage] 清除本地数据失败: %v", err)
		utils.InternalServerError(c, "Não foi possível limpar os dados locais")
		return
	}
	utils.SuccessWithMessage(c, "Dados locais removidos", nil)
}
