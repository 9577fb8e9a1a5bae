package theme

import "feedkeeper/internal/domain/news"

type listOutput struct {
	Body themeList
}

type themeList struct {
	Items []news.Theme `json:"items"`
}

type idInput struct {
	ID string `path:"id" maxLength:"64" doc:"ID темы"`
}

type putInput struct {
	ID   string `path:"id" maxLength:"64" doc:"ID темы, генерируется клиентом"`
	Body themeRequest
}

type themeRequest struct {
	Name  string `json:"name" doc:"Название темы" minLength:"1" maxLength:"128"`
	Color string `json:"color,omitempty" doc:"Цвет в формате #rrggbb" example:"#00ff00"`
}
