package client

import (
	"encoding/json"
	"fmt"
	"time"

	"feedkeeper/internal/domain/news"
)

// MaxRetries число неудачных попыток, после которого запись очереди удаляется
const MaxRetries = 3

// Action вид отложенной записи
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Имена локальных таблиц, они же адресуют операции в очереди
const (
	TableSources      = "sources"
	TableThemes       = "themes"
	TableSourceThemes = "source_themes"
	TableArticles     = "articles"
	TableFavorites    = "favorites"
	TableReadArticles = "read_articles"
)

// QueueEntry строка таблицы sync_queue
type QueueEntry struct {
	ID         int64     `json:"id"`
	Action     Action    `json:"action"`
	TableName  string    `json:"table_name"`
	RecordID   string    `json:"record_id"`
	Payload    string    `json:"payload"`
	CreatedAt  time.Time `json:"created_at"`
	RetryCount int       `json:"retry_count"`
	LastError  *string   `json:"last_error"`
}

// Operation отложенная запись на сервер. Конкретные типы ниже образуют
// закрытый набор вариантов, каждый со своей типизированной нагрузкой.
type Operation interface {
	Table() string
	Action() Action
	RecordID() string
}

type AddFavoriteOp struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (AddFavoriteOp) Table() string { return TableFavorites }
func (AddFavoriteOp) Action() Action { return ActionInsert }
func (o AddFavoriteOp) RecordID() string { return o.ArticleID }

type RemoveFavoriteOp struct {
	ArticleID string `json:"article_id"`
}

func (RemoveFavoriteOp) Table() string { return TableFavorites }
func (RemoveFavoriteOp) Action() Action { return ActionDelete }
func (o RemoveFavoriteOp) RecordID() string { return o.ArticleID }

type MarkReadOp struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	ReadAt    time.Time `json:"read_at"`
}

func (MarkReadOp) Table() string { return TableReadArticles }
func (MarkReadOp) Action() Action { return ActionInsert }
func (o MarkReadOp) RecordID() string { return o.ArticleID }

type MarkUnreadOp struct {
	ArticleID string `json:"article_id"`
}

func (MarkUnreadOp) Table() string { return TableReadArticles }
func (MarkUnreadOp) Action() Action { return ActionDelete }
func (o MarkUnreadOp) RecordID() string { return o.ArticleID }

type AddSourceOp struct {
	Source news.Source `json:"source"`
}

func (AddSourceOp) Table() string { return TableSources }
func (AddSourceOp) Action() Action { return ActionInsert }
func (o AddSourceOp) RecordID() string { return o.Source.ID }

type UpdateSourceOp struct {
	Source news.Source `json:"source"`
}

func (UpdateSourceOp) Table() string { return TableSources }
func (UpdateSourceOp) Action() Action { return ActionUpdate }
func (o UpdateSourceOp) RecordID() string { return o.Source.ID }

type DeleteSourceOp struct {
	SourceID string `json:"source_id"`
}

func (DeleteSourceOp) Table() string { return TableSources }
func (DeleteSourceOp) Action() Action { return ActionDelete }
func (o DeleteSourceOp) RecordID() string { return o.SourceID }

type AddThemeOp struct {
	Theme news.Theme `json:"theme"`
}

func (AddThemeOp) Table() string { return TableThemes }
func (AddThemeOp) Action() Action { return ActionInsert }
func (o AddThemeOp) RecordID() string { return o.Theme.ID }

type UpdateThemeOp struct {
	Theme news.Theme `json:"theme"`
}

func (UpdateThemeOp) Table() string { return TableThemes }
func (UpdateThemeOp) Action() Action { return ActionUpdate }
func (o UpdateThemeOp) RecordID() string { return o.Theme.ID }

type DeleteThemeOp struct {
	ThemeID string `json:"theme_id"`
}

func (DeleteThemeOp) Table() string { return TableThemes }
func (DeleteThemeOp) Action() Action { return ActionDelete }
func (o DeleteThemeOp) RecordID() string { return o.ThemeID }

type AssignThemeOp struct {
	SourceID string `json:"source_id"`
	ThemeID  string `json:"theme_id"`
}

func (AssignThemeOp) Table() string { return TableSourceThemes }
func (AssignThemeOp) Action() Action { return ActionInsert }
func (o AssignThemeOp) RecordID() string {
	return news.SourceTheme{SourceID: o.SourceID, ThemeID: o.ThemeID}.LinkKey()
}

type UnassignThemeOp struct {
	SourceID string `json:"source_id"`
	ThemeID  string `json:"theme_id"`
}

func (UnassignThemeOp) Table() string { return TableSourceThemes }
func (UnassignThemeOp) Action() Action { return ActionDelete }
func (o UnassignThemeOp) RecordID() string {
	return news.SourceTheme{SourceID: o.SourceID, ThemeID: o.ThemeID}.LinkKey()
}

type opKey struct {
	table  string
	action Action
}

var operationDecoders = map[opKey]func([]byte) (Operation, error){
	{TableFavorites, ActionInsert}:    decodeAs[AddFavoriteOp],
	{TableFavorites, ActionDelete}:    decodeAs[RemoveFavoriteOp],
	{TableReadArticles, ActionInsert}: decodeAs[MarkReadOp],
	{TableReadArticles, ActionDelete}: decodeAs[MarkUnreadOp],
	{TableSources, ActionInsert}:      decodeAs[AddSourceOp],
	{TableSources, ActionUpdate}:      decodeAs[UpdateSourceOp],
	{TableSources, ActionDelete}:      decodeAs[DeleteSourceOp],
	{TableThemes, ActionInsert}:       decodeAs[AddThemeOp],
	{TableThemes, ActionUpdate}:       decodeAs[UpdateThemeOp],
	{TableThemes, ActionDelete}:       decodeAs[DeleteThemeOp],
	{TableSourceThemes, ActionInsert}: decodeAs[AssignThemeOp],
	{TableSourceThemes, ActionDelete}: decodeAs[UnassignThemeOp],
}

func decodeAs[T Operation](payload []byte) (Operation, error) {
	var op T
	if err := json.Unmarshal(payload, &op); err != nil {
		return nil, err
	}
	return op, nil
}

// EncodeOperation сериализует нагрузку операции для хранения в очереди
func EncodeOperation(op Operation) (string, error) {
	if _, ok := operationDecoders[opKey{op.Table(), op.Action()}]; !ok {
		return "", fmt.Errorf("%w: %s %s", ErrUnknownOperation, op.Action(), op.Table())
	}
	data, err := json.Marshal(op)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации операции: %w", err)
	}
	return string(data), nil
}

// DecodeOperation восстанавливает операцию по таблице, действию и нагрузке
func DecodeOperation(table string, action Action, payload string) (Operation, error) {
	decode, ok := operationDecoders[opKey{table, action}]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, action, table)
	}
	op, err := decode([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора нагрузки %s %s: %w", action, table, err)
	}
	return op, nil
}

// Operation восстанавливает типизированную операцию записи очереди
func (e QueueEntry) Operation() (Operation, error) {
	return DecodeOperation(e.TableName, e.Action, e.Payload)
}
