package client

import "feedkeeper/internal/domain/news"

// ArticleFilter параметры выборки статей из локального хранилища
type ArticleFilter struct {
	UserID        string
	SourceID      string
	ThemeID       string
	OnlyFavorites bool
	OnlyUnread    bool
	Limit         int
	Offset        int
}

// LocalCounts количество строк в локальных таблицах
type LocalCounts struct {
	Sources   int `json:"sources"`
	Themes    int `json:"themes"`
	Links     int `json:"links"`
	Articles  int `json:"articles"`
	Favorites int `json:"favorites"`
	ReadMarks int `json:"read_marks"`
	Queue     int `json:"queue"`
}

// ArticleView статья с пользовательскими отметками
type ArticleView struct {
	news.Article
	IsFavorite bool `json:"is_favorite"`
	IsRead     bool `json:"is_read"`
}
