package article

import (
	"time"

	"feedkeeper/internal/domain/news"
)

type listInput struct {
	Limit int `query:"limit" minimum:"0" doc:"Размер окна последних статей, по умолчанию 100"`
}

type listOutput struct {
	Body articleList
}

type articleList struct {
	Items []news.Article `json:"items"`
}

type ingestInput struct {
	Body ingestRequest
}

type ingestRequest struct {
	Items []ingestItem `json:"items" minItems:"1" maxItems:"1000"`
}

// ingestItem статья от сборщика; ID и время сбора сервер проставит сам, если их нет
type ingestItem struct {
	ID          string     `json:"id,omitempty"`
	SourceID    string     `json:"source_id" minLength:"1"`
	URL         string     `json:"url" minLength:"1"`
	Title       string     `json:"title,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	FetchedAt   *time.Time `json:"fetched_at,omitempty"`
}

type ingestOutput struct {
	Body ingestResponse
}

type ingestResponse struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
}
