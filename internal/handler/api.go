package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moviepicker/internal/model"
	"github.com/user/moviepicker/internal/service"
	"github.com/user/moviepicker/internal/utils"
)

// ==================== 观影清单 ====================

// ListMovies 电影列表，可按 status 过滤
func (h *Handler) ListMovies(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		utils.Success(c, h.Watchlist.ListAll(c.Request.Context()))
		return
	}
	if !model.MovieStatus(status).Valid() {
		utils.BadRequest(c, "status deve ser pending, chosen ou rejected")
		return
	}
	utils.Success(c, h.Watchlist.ListByStatus(c.Request.Context(), model.MovieStatus(status)))
}

// GetMovie 电影详情
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}
	movie, found := h.Watchlist.Get(c.Request.Context(), id)
	if !found {
		utils.NotFound(c, "Filme não encontrado")
		return
	}
	utils.Success(c, movie)
}

// AddMovie 添加电影
func (h *Handler) AddMovie(c *gin.Context) {
	var input model.MovieInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badBinding(c, err)
		return
	}
	input.Title = strings.TrimSpace(input.Title)

	movie, err := h.Watchlist.Add(c.Request.Context(), input)
	if err != nil {
		utils.InternalServerError(c, "Não foi possível adicionar o filme")
		return
	}
	utils.Created(c, movie)
}

// UpdateMovie 部分更新
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}
	var fields model.MovieFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		badBinding(c, err)
		return
	}
	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			utils.BadRequest(c, "title é obrigatório")
			return
		}
		fields.Title = &title
	}

	h.writeMovie(c, id, h.Watchlist.Update(c.Request.Context(), id, fields))
}

type statusRequest struct {
	Status model.MovieStatus `json:"status" binding:"required,moviestatus"`
}

// UpdateMovieStatus 选择 / 拒绝 / 重新放回待定
func (h *Handler) UpdateMovieStatus(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	h.writeMovie(c, id, h.Watchlist.UpdateStatus(c.Request.Context(), id, req.Status))
}

// writeMovie 更新后返回最新记录；id 不存在时仍视为成功，data 为 null
func (h *Handler) writeMovie(c *gin.Context, id int64, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		utils.BadRequest(c, err.Error())
		return
	case err != nil:
		utils.InternalServerError(c, "Não foi possível atualizar o filme")
		return
	}
	if movie, found := h.Watchlist.Get(c.Request.Context(), id); found {
		utils.Success(c, movie)
		return
	}
	utils.Success(c, nil)
}

// RemoveMovie 删除电影
func (h *Handler) RemoveMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}
	if err := h.Watchlist.Remove(c.Request.Context(), id); err != nil {
		utils.InternalServerError(c, "Não foi possível remover o filme")
		return
	}
	utils.SuccessWithMessage(c, "Filme removido", nil)
}

// ClearMovies 清空清单
func (h *Handler) ClearMovies(c *gin.Context) {
	if err := h.Watchlist.Clear(c.Request.Context()); err != nil {
		utils.InternalServerError(c, "Não foi possível limpar a lista")
		return
	}
	utils.SuccessWithMessage(c, "Lista limpa", nil)
}

// DrawMovie 从已选中的电影中随机抽取一部
func (h *Handler) DrawMovie(c *gin.Context) {
	movie, ok := h.Watchlist.DrawRandom(c.Request.Context())
	if !ok {
		utils.NotFound(c, "Nenhum filme escolhido para sortear")
		return
	}
	utils.Success(c, movie)
}

// MovieStats 各状态统计
func (h *Handler) MovieStats(c *gin.Context) {
	utils.Success(c, h.Watchlist.Stats(c.Request.Context()))
}

func movieID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "id inválido")
		return 0, false
	}
	return id, true
}

// ==================== 目录 ====================

// Platforms 可选流媒体平台
func (h *Handler) Platforms(c *gin.Context) {
	utils.Success(c, model.Platforms)
}

// Genres 可选类型
func (h *Handler) Genres(c *gin.Context) {
	utils.Success(c, model.GenreChoices)
}

// ==================== TMDB ====================

// SearchTMDB 搜索电影，用于添加时预填
func (h *Handler) SearchTMDB(c *gin.Context) {
	utils.Success(c, h.TMDB.Search(c.Request.Context(), c.Query("q")))
}

// TMDBDetails 电影详情
func (h *Handler) TMDBDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "id inválido")
		return
	}
	movie, ok := h.TMDB.GetByID(c.Request.Context(), id)
	if !ok {
		utils.NotFound(c, "Filme não encontrado no TMDB")
		return
	}
	utils.Success(c, movie)
}

// PopularTMDB 热门电影
func (h *Handler) PopularTMDB(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	utils.Success(c, h.TMDB.Popular(c.Request.Context(), page))
}

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
