package source

import "feedkeeper/internal/domain/news"

type listOutput struct {
	Body sourceList
}

type sourceList struct {
	Items []news.Source `json:"items"`
}

type idInput struct {
	ID string `path:"id" maxLength:"64" doc:"ID источника"`
}

type putInput struct {
	ID   string `path:"id" maxLength:"64" doc:"ID источника, генерируется клиентом"`
	Body sourceRequest
}

type sourceRequest struct {
	URL  string `json:"url" doc:"Адрес ленты или страницы" minLength:"1"`
	Name string `json:"name" doc:"Отображаемое имя" minLength:"1" maxLength:"128"`
	Type string `json:"type,omitempty" doc:"Тип источника: feed, page, video-channel"`
}

// ==================== Source themes ====================

type linkListOutput struct {
	Body linkList
}

type linkList struct {
	Items []news.SourceTheme `json:"items"`
}

type linkInput struct {
	SourceID string `path:"source_id" maxLength:"64" doc:"ID источника"`
	ThemeID  string `path:"theme_id" maxLength:"64" doc:"ID темы"`
}
