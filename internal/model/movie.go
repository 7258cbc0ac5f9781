package model

import (
	"time"
)

// MovieStatus 观影清单状态
type MovieStatus string

const (
	StatusPending  MovieStatus = "pending"  // 等待选择
	StatusChosen   MovieStatus = "chosen"   // 已选中
	StatusRejected MovieStatus = "rejected" // 已拒绝
)

// Valid 判断状态值是否合法
func (s MovieStatus) Valid() bool {
	switch s {
	case StatusPending, StatusChosen, StatusRejected:
		return true
	}
	return false
}

// Movie 观影清单条目
type Movie struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Year        string      `json:"year"`
	Genre       string      `json:"genre"`
	Platforms   []string    `json:"platforms"`
	PosterURL   *string     `json:"posterUrl"`
	BackdropURL *string     `json:"backdropUrl"`
	Status      MovieStatus `json:"status"`
	AddedAt     time.Time   `json:"addedAt"`
}

// MovieInput 新增电影时由调用方提供的字段（id、状态、时间由清单生成）
type MovieInput struct {
	Title       string   `json:"title" binding:"required,notblank"`
	Description string   `json:"description"`
	Year        string   `json:"year"`
	Genre       string   `json:"genre"`
	Platforms   []string `json:"platforms"`
	PosterURL   *string  `json:"posterUrl"`
	BackdropURL *string  `json:"backdropUrl"`
}

// MovieFields 部分更新，nil 字段保持原值
type MovieFields struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Year        *string      `json:"year"`
	Genre       *string      `json:"genre"`
	Platforms   *[]string    `json:"platforms"`
	PosterURL   *string      `json:"posterUrl"`
	BackdropURL *string      `json:"backdropUrl"`
	Status      *MovieStatus `json:"status" binding:"omitempty,moviestatus"`
}

// Apply 将字段浅合并到 m 上；id 与 addedAt 不可修改
func (f MovieFields) Apply(m *Movie) {
	if f.Title != nil {
		m.Title = *f.Title
	}
	if f.Description != nil {
		m.Description = *f.Description
	}
	if f.Year != nil {
		m.Year = *f.Year
	}
	if f.Genre != nil {
		m.Genre = *f.Genre
	}
	if f.Platforms != nil {
		m.Platforms = append([]string{}, (*f.Platforms)...)
	}
	if f.PosterURL != nil {
		m.PosterURL = nullableURL(*f.PosterURL)
	}
	if f.BackdropURL != nil {
		m.BackdropURL = nullableURL(*f.BackdropURL)
	}
	if f.Status != nil {
		m.Status = *f.Status
	}
}

// 空字符串表示清除图片地址
func nullableURL(u string) *string {
	if u == "" {
		return nil
	}
	return &u
}

// WatchlistStats 各状态数量统计
type WatchlistStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Chosen   int `json:"chosen"`
	Rejected int `json:"rejected"`
}

// Platform 流媒体平台
type Platform struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Platforms 可选的流媒体平台
var Platforms = []Platform{
	{ID: "netflix", Name: "Netflix", Color: "#E50914"},
	{ID: "prime", Name: "Prime Video", Color: "#00A8E1"},
	{ID: "disney", Name: "Disney+", Color: "#113CCF"},
	{ID: "hbo", Name: "HBO Max", Color: "#B100FF"},
	{ID: "apple", Name: "Apple TV+", Color: "#000000"},
	{ID: "paramount", Name: "Paramount+", Color: "#0064FF"},
	{ID: "star", Name: "Star+", Color: "#FFB800"},
	{ID: "globo", Name: "Globoplay", Color: "#FE3800"},
}

// GenreChoices 表单中可选的类型
var GenreChoices = []string{
	"Ação", "Aventura", "Comédia", "Drama", "Ficção Científica",
	"Terror", "Romance", "Suspense", "Animação", "Documentário",
}
