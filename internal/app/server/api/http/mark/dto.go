package mark

import (
	"time"

	"feedkeeper/internal/domain/news"
)

type articlePath struct {
	ArticleID string `path:"article_id" maxLength:"64" doc:"ID статьи"`
}

type favoriteListOutput struct {
	Body favoriteList
}

type favoriteList struct {
	Items []news.Favorite `json:"items"`
}

type putFavoriteInput struct {
	ArticleID string `path:"article_id" maxLength:"64" doc:"ID статьи"`
	Body      favoriteRequest
}

type favoriteRequest struct {
	ID        string    `json:"id,omitempty" doc:"ID отметки, генерируется клиентом"`
	CreatedAt time.Time `json:"created_at,omitempty" doc:"Время добавления на клиенте"`
}

type readMarkListOutput struct {
	Body readMarkList
}

type readMarkList struct {
	Items []news.ReadMark `json:"items"`
}

type putReadMarkInput struct {
	ArticleID string `path:"article_id" maxLength:"64" doc:"ID статьи"`
	Body      readMarkRequest
}

type readMarkRequest struct {
	ID     string    `json:"id,omitempty" doc:"ID отметки, генерируется клиентом"`
	ReadAt time.Time `json:"read_at,omitempty" doc:"Время прочтения на клиенте"`
}
