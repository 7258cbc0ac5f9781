package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepicker/internal/config"
	"github.com/user/moviepicker/internal/middleware"
	"github.com/user/moviepicker/internal/model"
	"github.com/user/moviepicker/internal/repository"
)

// CloudHandler 云端同步服务：账号、收藏、资料
// 响应格式为 {success, message, ...}，与设备端 CloudClient 对应
type CloudHandler struct {
	Repos  *repository.Repositories
	Config *config.Config
}

func NewCloudHandler(repos *repository.Repositories, cfg *config.Config) *CloudHandler {
	return &CloudHandler{Repos: repos, Config: cfg}
}

func cloudFail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

func toCloudUser(u *model.User) *model.CloudUser {
	return &model.CloudUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Register 注册
func (h *CloudHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cloudFail(c, http.StatusBadRequest, bindMessage(err))
		return
	}

	ctx := c.Request.Context()
	existing, err := h.Repos.User.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("[Cloud] 查询用户失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	if existing != nil {
		cloudFail(c, http.StatusConflict, "E-mail já cadastrado")
		return
	}

	user, err := h.Repos.User.Create(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		log.Printf("[Cloud] 创建用户失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro ao criar conta")
		return
	}

	log.Printf("[Cloud] 新用户注册: %s", user.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": toCloudUser(user)})
}

// Login 登录并签发 JWT
func (h *CloudHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cloudFail(c, http.StatusBadRequest, bindMessage(err))
		return
	}

	user, err := h.Repos.User.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("[Cloud] 查询用户失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	if user == nil || !h.Repos.User.CheckPassword(user, req.Password) {
		cloudFail(c, http.StatusUnauthorized, "E-mail ou senha inválidos")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		log.Printf("[Cloud] 签发 Token 失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": toCloudUser(user)})
}

// GetFavorites 当前用户的收藏
func (h *CloudHandler) GetFavorites(c *gin.Context) {
	favorites, err := h.Repos.Favorite.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		log.Printf("[Cloud] 读取收藏失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro ao carregar favoritos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favorites": favorites})
}

type syncFavoritesRequest struct {
	Favorites []model.Favorite `json:"favorites"`
}

// SyncFavorites 用客户端列表整体覆盖
func (h *CloudHandler) SyncFavorites(c *gin.Context) {
	var req syncFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cloudFail(c, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Favorites == nil {
		req.Favorites = []model.Favorite{}
	}

	if err := h.Repos.Favorite.Replace(c.Request.Context(), middleware.GetUserID(c), req.Favorites); err != nil {
		log.Printf("[Cloud] 保存收藏失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro ao salvar favoritos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(req.Favorites)})
}

// GetProfile 资料不存在时以账号名称填充，附带收藏数量
func (h *CloudHandler) GetProfile(c *gin.Context) {
	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}
	count, err := h.Repos.Favorite.CountByUser(c.Request.Context(), profile.UserID)
	if err != nil {
		log.Printf("[Cloud] 统计收藏失败: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile, "favoritesCount": count})
}

// UpdateProfile 更新资料
func (h *CloudHandler) UpdateProfile(c *gin.Context) {
	profile, ok := h.loadProfile(c)
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(profile); err != nil {
		cloudFail(c, http.StatusBadRequest, "JSON inválido")
		return
	}
	profile.UserID = middleware.GetUserID(c)

	if err := h.Repos.Profile.Upsert(c.Request.Context(), profile); err != nil {
		log.Printf("[Cloud] 保存资料失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro ao salvar perfil")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

func (h *CloudHandler) loadProfile(c *gin.Context) (*model.Profile, bool) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	profile, err := h.Repos.Profile.Get(ctx, userID)
	if err != nil {
		log.Printf("[Cloud] 读取资料失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro ao carregar perfil")
		return nil, false
	}
	if profile != nil {
		return profile, true
	}

	user, err := h.Repos.User.FindByID(ctx, userID)
	if err != nil {
		log.Printf("[Cloud] 查询用户失败: %v", err)
		cloudFail(c, http.StatusInternalServerError, "Erro interno do servidor")
		return nil, false
	}
	if user == nil {
		cloudFail(c, http.StatusUnauthorized, "Usuário não encontrado")
		return nil, false
	}
	return &model.Profile{UserID: userID, Name: user.Name}, true
}
