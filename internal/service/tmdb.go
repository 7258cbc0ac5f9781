package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/user/moviepicker/internal/config"
	"github.com/user/moviepicker/internal/model"
	"github.com/user/moviepicker/internal/utils"
	"golang.org/x/sync/singleflight"
)

// TMDB 图片尺寸
const (
	PosterSmall    = "w185"
	PosterMedium   = "w342"
	PosterLarge    = "w500"
	BackdropSmall  = "w300"
	BackdropMedium = "w780"
	BackdropLarge  = "w1280"
)

// 少于该字符数的查询不发起请求
const minQueryLength = 2

type TMDBService struct {
	client       *utils.HTTPClient
	config       *config.Config
	posterSize   string
	backdropSize string
	searchCache  *utils.SearchCache[[]model.TMDBMovie]
	detailCache  *utils.TTLCache[model.TMDBMovie]
	group        singleflight.Group
}

func NewTMDBService(cfg *config.Config, client *utils.HTTPClient) *TMDBService {
	return &TMDBService{
		client:       client,
		config:       cfg,
		posterSize:   PosterMedium,
		backdropSize: BackdropMedium,
		searchCache:  utils.NewSearchCache[[]model.TMDBMovie](cfg.SearchCacheSize, cfg.SearchCacheTTL),
		detailCache:  utils.NewTTLCache[model.TMDBMovie](cfg.SearchCacheTTL, 2*cfg.SearchCacheTTL),
	}
}

// WithImageSizes 指定海报与背景图尺寸
func (s *TMDBService) WithImageSizes(poster, backdrop string) *TMDBService {
	s.posterSize = poster
	s.backdropSize = backdrop
	return s
}

// ImageURL 拼接完整图片地址，path 为空时返回空字符串
func (s *TMDBService) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return s.config.TMDBImageBaseURL + "/" + size + path
}

type tmdbMovieResult struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	GenreIDs      []int   `json:"genre_ids"`
}

type tmdbListResponse struct {
	Page    int               `json:"page"`
	Results []tmdbMovieResult `json:"results"`
}

type tmdbDetailsResponse struct {
	tmdbMovieResult
	Runtime int           `json:"runtime"`
	Genres  []model.Genre `json:"genres"`
	Budget  int64         `json:"budget"`
	Revenue int64         `json:"revenue"`
	Status  string        `json:"status"`
	Tagline string        `json:"tagline"`
}

// Search 按关键词搜索电影；任何失败都返回空列表
func (s *TMDBService) Search(ctx context.Context, query string) []model.TMDBMovie {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return []model.TMDBMovie{}
	}
	if !s.config.TMDBConfigured() {
		log.Println("[TMDB] API Key 未配置，请设置 TMDB_API_KEY（https://www.themoviedb.org/settings/api）")
		return []model.TMDBMovie{}
	}

	cacheKey := strings.ToLower(query)
	if cached, ok := s.searchCache.Get(cacheKey); ok {
		return cloneMovies(cached)
	}

	params := s.baseParams()
	params.Set("query", query)
	params.Set("page", "1")

	var resp tmdbListResponse
	if err := s.client.GetJSON(ctx, s.config.TMDBBaseURL+"/search/movie?"+params.Encode(), &resp); err != nil {
		s.logFailure("搜索电影失败", err)
		return []model.TMDBMovie{}
	}

	movies := s.normalizeList(resp.Results)
	s.searchCache.Set(cacheKey, movies)
	return cloneMovies(movies)
}

// GetByID 获取电影详情；失败时 ok 为 false
func (s *TMDBService) GetByID(ctx context.Context, id int) (model.TMDBMovie, bool) {
	key := strconv.Itoa(id)
	if cached, ok := s.detailCache.Get(key); ok {
		return cached.Clone(), true
	}

	// 使用 singleflight 避免并发重复请求同一部电影
	val, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.fetchTMDBDetails(ctx, id)
	})
	if err != nil {
		s.logFailure(fmt.Sprintf("获取详情失败 (ID: %d)", id), err)
		return model.TMDBMovie{}, false
	}

	movie := val.(model.TMDBMovie)
	s.detailCache.Set(key, movie)
	return movie.Clone(), true
}

func cloneMovies(movies []model.TMDBMovie) []model.TMDBMovie {
	out := make([]model.TMDBMovie, len(movies))
	for i, m := range movies {
		out[i] = m.Clone()
	}
	return out
}

// Popular 热门电影
func (s *TMDBService) Popular(ctx context.Context, page int) []model.TMDBMovie {
	if !s.config.TMDBConfigured() {
		log.Println("[TMDB] API Key 未配置，跳过热门电影")
		return []model.TMDBMovie{}
	}
	if page < 1 {
		page = 1
	}

	params := s.baseParams()
	params.Set("page", strconv.Itoa(page))

	var resp tmdbListResponse
	if err := s.client.GetJSON(ctx, s.config.TMDBBaseURL+"/movie/popular?"+params.Encode(), &resp); err != nil {
		s.logFailure("获取热门电影失败", err)
		return []model.TMDBMovie{}
	}
	return s.normalizeList(resp.Results)
}

func (s *TMDBService) fetchTMDBDetails(ctx context.Context, id int) (model.TMDBMovie, error) {
	if !s.config.TMDBConfigured() {
		return model.TMDBMovie{}, fmt.Errorf("API Key 未配置")
	}

	endpoint := fmt.Sprintf("%s/movie/%d?%s", s.config.TMDBBaseURL, id, s.baseParams().Encode())
	var details tmdbDetailsResponse
	if err := s.client.GetJSON(ctx, endpoint, &details); err != nil {
		return model.TMDBMovie{}, err
	}

	movie := s.normalize(details.tmdbMovieResult)
	movie.Runtime = details.Runtime
	movie.Budget = details.Budget
	movie.Revenue = details.Revenue
	movie.Status = details.Status
	movie.Tagline = details.Tagline
	movie.GenresList = details.Genres
	if len(details.Genres) > 0 {
		names := make([]string, 0, len(details.Genres))
		for _, g := range details.Genres {
			names = append(names, g.Name)
		}
		movie.Genres = strings.Join(names, ", ")
	}
	return movie, nil
}

func (s *TMDBService) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", s.config.TMDBAPIKey)
	params.Set("language", s.config.TMDBLanguage)
	return params
}

func (s *TMDBService) normalizeList(results []tmdbMovieResult) []model.TMDBMovie {
	movies := make([]model.TMDBMovie, 0, len(results))
	for _, r := range results {
		movies = append(movies, s.normalize(r))
	}
	return movies
}

func (s *TMDBService) normalize(r tmdbMovieResult) model.TMDBMovie {
	year, _, _ := strings.Cut(r.ReleaseDate, "-")
	return model.TMDBMovie{
		ID:            r.ID,
		TMDBID:        r.ID,
		Title:         r.Title,
		OriginalTitle: r.OriginalTitle,
		Description:   r.Overview,
		Year:          year,
		ReleaseDate:   r.ReleaseDate,
		PosterPath:    r.PosterPath,
		BackdropPath:  r.BackdropPath,
		PosterURL:     s.ImageURL(r.PosterPath, s.posterSize),
		BackdropURL:   s.ImageURL(r.BackdropPath, s.backdropSize),
		VoteAverage:   r.VoteAverage,
		VoteCount:     r.VoteCount,
		Popularity:    r.Popularity,
		GenreIDs:      r.GenreIDs,
	}
}

func (s *TMDBService) logFailure(action string, err error) {
	if utils.IsStatus(err, http.StatusUnauthorized) {
		log.Printf("[TMDB] %s: 401 API Key 未配置或无效，请检查 TMDB_API_KEY", action)
		return
	}
	log.Printf("[TMDB] %s: %v", action, err)
}
