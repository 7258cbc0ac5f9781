package service

import "strings"

// TMDB 类型 id 对应的 pt-BR 名称
var genresMap = map[int]string{
	28:    "Ação",
	12:    "Aventura",
	16:    "Animação",
	35:    "Comédia",
	80:    "Crime",
	99:    "Documentário",
	18:    "Drama",
	10751: "Família",
	14:    "Fantasia",
	36:    "História",
	27:    "Terror",
	10402: "Música",
	9648:  "Mistério",
	10749: "Romance",
	878:   "Ficção Científica",
	10770: "Cinema TV",
	53:    "Suspense",
	10752: "Guerra",
	37:    "Faroeste",
}

// GenreName 类型名称，未知 id 返回空字符串
func GenreName(genreID int) string {
	return genresMap[genreID]
}

// GenresFromIDs 将 id 列表转换为 "Ação, Aventura"，未知 id 忽略
func GenresFromIDs(ids []int) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := GenreName(id); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
