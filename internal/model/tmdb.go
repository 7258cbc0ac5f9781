package model

import "slices"

// TMDBMovie TMDB 搜索/详情结果（已归一化）
type TMDBMovie struct {
	ID            int     `json:"id"`
	TMDBID        int     `json:"tmdbId"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"originalTitle"`
	Description   string  `json:"description"`
	Year          string  `json:"year"`
	ReleaseDate   string  `json:"releaseDate"`
	PosterPath    string  `json:"posterPath"`
	BackdropPath  string  `json:"backdropPath"`
	PosterURL     string  `json:"posterUrl"`
	BackdropURL   string  `json:"backdropUrl"`
	VoteAverage   float64 `json:"voteAverage"`
	VoteCount     int     `json:"voteCount"`
	Popularity    float64 `json:"popularity"`
	GenreIDs      []int   `json:"genreIds,omitempty"`

	// 以下仅详情接口填充
	Runtime    int     `json:"runtime,omitempty"`
	Genres     string  `json:"genres,omitempty"`
	GenresList []Genre `json:"genresList,omitempty"`
	Budget     int64   `json:"budget,omitempty"`
	Revenue    int64   `json:"revenue,omitempty"`
	Status     string  `json:"status,omitempty"`
	Tagline    string  `json:"tagline,omitempty"`
}

// Clone 深拷贝，缓存中的结果不与调用方共享切片
func (m TMDBMovie) Clone() TMDBMovie {
	m.GenreIDs = slices.Clone(m.GenreIDs)
	m.GenresList = slices.Clone(m.GenresList)
	return m
}

// Genre 类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
