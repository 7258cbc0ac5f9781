package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/user/moviepicker/internal/model"
)

// 观影清单在键值存储中的键
const moviesKey = "@movies_list"

// ErrInvalidStatus 状态值不是 pending/chosen/rejected 之一
var ErrInvalidStatus = errors.New("status inválido")

// WatchlistService 观影清单：新增、选择/拒绝、随机抽取
// 每次操作读取整个列表、内存中修改、整体写回；不做状态流转限制
type WatchlistService struct {
	store KeyValueStore
	now   func() time.Time
	intn  func(n int) int

	mu     sync.Mutex
	lastID int64
}

// NewWatchlistService 创建观影清单服务
func NewWatchlistService(store KeyValueStore) *WatchlistService {
	return &WatchlistService{
		store: store,
		now:   time.Now,
		intn:  rand.IntN,
	}
}

// ListAll 按加入顺序返回全部电影；读取失败时返回空列表
func (s *WatchlistService) ListAll(ctx context.Context) []model.Movie {
	movies, err := s.load(ctx)
	if err != nil {
		log.Printf("[Watchlist] 读取电影列表失败: %v", err)
		return []model.Movie{}
	}
	return movies
}

// Get 按 id 查找
func (s *WatchlistService) Get(ctx context.Context, id int64) (model.Movie, bool) {
	for _, m := range s.ListAll(ctx) {
		if m.ID == id {
			return m, true
		}
	}
	return model.Movie{}, false
}

// Add 新增电影，id 与加入时间在此生成，初始状态为 pending
func (s *WatchlistService) Add(ctx context.Context, input model.MovieInput) (*model.Movie, error) {
	movies, err := s.load(ctx)
	if err != nil {
		log.Printf("[Watchlist] 添加电影失败: %v", err)
		return nil, err
	}

	platforms := input.Platforms
	if platforms == nil {
		platforms = []string{}
	}

	now := s.now()
	movie := model.Movie{
		ID:          s.nextID(now, maxID(movies)),
		Title:       input.Title,
		Description: input.Description,
		Year:        input.Year,
		Genre:       input.Genre,
		Platforms:   platforms,
		PosterURL:   emptyToNil(input.PosterURL),
		BackdropURL: emptyToNil(input.BackdropURL),
		Status:      model.StatusPending,
		AddedAt:     now.UTC(),
	}

	movies = append(movies, movie)
	if err := s.save(ctx, movies); err != nil {
		log.Printf("[Watchlist] 添加电影失败: %v", err)
		return nil, err
	}
	return &movie, nil
}

// UpdateStatus 仅修改状态；id 不存在时列表原样写回
func (s *WatchlistService) UpdateStatus(ctx context.Context, id int64, status model.MovieStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.Update(ctx, id, model.MovieFields{Status: &status})
}

// Update 浅合并字段；id 不存在时列表原样写回
func (s *WatchlistService) Update(ctx context.Context, id int64, fields model.MovieFields) error {
	if fields.Status != nil && !fields.Status.Valid() {
		return ErrInvalidStatus
	}

	movies, err := s.load(ctx)
	if err != nil {
		log.Printf("[Watchlist] 更新电影失败: %v", err)
		return err
	}

	for i := range movies {
		if movies[i].ID == id {
			fields.Apply(&movies[i])
		}
	}

	if err := s.save(ctx, movies); err != nil {
		log.Printf("[Watchlist] 更新电影失败: %v", err)
		return err
	}
	return nil
}

// Remove 删除电影，重复删除视为成功
func (s *WatchlistService) Remove(ctx context.Context, id int64) error {
	movies, err := s.load(ctx)
	if err != nil {
		log.Printf("[Watchlist] 删除电影失败: %v", err)
		return err
	}

	filtered := movies[:0]
	for _, m := range movies {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}

	if err := s.save(ctx, filtered); err != nil {
		log.Printf("[Watchlist] 删除电影失败: %v", err)
		return err
	}
	return nil
}

// ListByStatus 按状态过滤
func (s *WatchlistService) ListByStatus(ctx context.Context, status model.MovieStatus) []model.Movie {
	result := []model.Movie{}
	for _, m := range s.ListAll(ctx) {
		if m.Status == status {
			result = append(result, m)
		}
	}
	return result
}

// DrawRandom 从已选中的电影中等概率抽取一部，不修改状态
func (s *WatchlistService) DrawRandom(ctx context.Context) (model.Movie, bool) {
	chosen := s.ListByStatus(ctx, model.StatusChosen)
	if len(chosen) == 0 {
		return model.Movie{}, false
	}
	return chosen[s.intn(len(chosen))], true
}

// Stats 各状态数量
func (s *WatchlistService) Stats(ctx context.Context) model.WatchlistStats {
	var stats model.WatchlistStats
	for _, m := range s.ListAll(ctx) {
		stats.Total++
		switch m.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusChosen:
			stats.Chosen++
		case model.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// Clear 删除整个清单
func (s *WatchlistService) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, moviesKey); err != nil {
		log.Printf("[Watchlist] 清空电影失败: %v", err)
		return err
	}
	return nil
}

func (s *WatchlistService) load(ctx context.Context) ([]model.Movie, error) {
	movies := []model.Movie{}
	if _, err := getJSON(ctx, s.store, moviesKey, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *WatchlistService) save(ctx context.Context, movies []model.Movie) error {
	if err := setJSON(ctx, s.store, moviesKey, movies); err != nil {
		return fmt.Errorf("保存电影列表失败: %w", err)
	}
	return nil
}

// nextID 毫秒时间戳；时钟未前进或落后于已有 id 时顺延
func (s *WatchlistService) nextID(now time.Time, floor int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if last := max(s.lastID, floor); id <= last {
		id = last + 1
	}
	s.lastID = id
	return id
}

func maxID(movies []model.Movie) int64 {
	var m int64
	for _, movie := range movies {
		m = max(m, movie.ID)
	}
	return m
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
