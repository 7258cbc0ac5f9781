package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/moviepicker/internal/config"
	"github.com/user/moviepicker/internal/repository"
	"github.com/user/moviepicker/internal/service"
	"github.com/user/moviepicker/internal/utils"
)

// Handler 设备端 HTTP 处理器
type Handler struct {
	Config    *config.Config
	Watchlist *service.WatchlistService
	TMDB      *service.TMDBService
	Storage   *service.StorageManager
	// Local 设备键值存储，用于整体清除本地数据
	Local *repository.KVRepository
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	client := utils.NewHTTPClient(cfg.HTTPTimeout)

	// 收藏：本地键值 + 加密凭证 + 云端同步
	storage := service.NewStorageManager(
		service.NewLocalStorage(repos.KV),
		service.NewSecureStorage(repos.Secure),
		service.NewCloudClient(cfg.CloudAPIURL, client),
	)

	return &Handler{
		Config:    cfg,
		Watchlist: service.NewWatchlistService(repos.KV),
		TMDB:      service.NewTMDBService(cfg, client),
		Storage:   storage,
		Local:     repos.KV,
	}
}

// bindMessage 将绑定/校验错误转换为提示信息
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "JSON inválido"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s é obrigatório", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s deve ser um e-mail válido", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s deve ter pelo menos %s caracteres", field, fe.Param()))
		case "moviestatus":
			msgs = append(msgs, fmt.Sprintf("%s deve ser pending, chosen ou rejected", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s inválido", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func badBinding(c *gin.Context, err error) {
	utils.BadRequest(c, bindMessage(err))
}
