package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedkeeper/internal/domain/news"
)

type bogusOp struct{}

func (bogusOp) Table() string    { return "widgets" }
func (bogusOp) Action() Action   { return ActionInsert }
func (bogusOp) RecordID() string { return "w1" }

func TestOperation_Addressing(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		table    string
		action   Action
		recordID string
	}{
		{"add favorite", AddFavoriteOp{ID: "f1", ArticleID: "a1"}, TableFavorites, ActionInsert, "a1"},
		{"remove favorite", RemoveFavoriteOp{ArticleID: "a1"}, TableFavorites, ActionDelete, "a1"},
		{"mark read", MarkReadOp{ID: "r1", ArticleID: "a2"}, TableReadArticles, ActionInsert, "a2"},
		{"update source", UpdateSourceOp{Source: news.Source{ID: "s1"}}, TableSources, ActionUpdate, "s1"},
		{"delete theme", DeleteThemeOp{ThemeID: "t1"}, TableThemes, ActionDelete, "t1"},
		{"assign theme", AssignThemeOp{SourceID: "s1", ThemeID: "t1"}, TableSourceThemes, ActionInsert, "s1:t1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.table, tt.op.Table())
			assert.Equal(t, tt.action, tt.op.Action())
			assert.Equal(t, tt.recordID, tt.op.RecordID())
		})
	}
}

func TestDecodeOperation_RestoresVariant(t *testing.T) {
	op := AddSourceOp{Source: news.Source{
		ID:     "s1",
		UserID: "user-1",
		URL:    "https://a.example/rss",
		Name:   "Alpha",
		Type:   news.SourceTypeFeed,
		Status: news.SourceStatusPending,
	}}

	payload, err := EncodeOperation(op)
	require.NoError(t, err)

	entry := QueueEntry{TableName: TableSources, Action: ActionInsert, Payload: payload}
	decoded, err := entry.Operation()
	require.NoError(t, err)

	got, ok := decoded.(AddSourceOp)
	require.True(t, ok, "unexpected variant %T", decoded)
	assert.Equal(t, op.Source.ID, got.Source.ID)
	assert.Equal(t, op.Source.URL, got.Source.URL)
	assert.Equal(t, news.SourceTypeFeed, got.Source.Type)
}

func TestDecodeOperation_Errors(t *testing.T) {
	_, err := DecodeOperation("widgets", ActionInsert, "{}")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = DecodeOperation(TableFavorites, ActionUpdate, "{}")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = DecodeOperation(TableFavorites, ActionInsert, "not json")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownOperation)
}

func TestEncodeOperation_UnknownVariant(t *testing.T) {
	_, err := EncodeOperation(bogusOp{})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
