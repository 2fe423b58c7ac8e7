package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryTestDatabase(t *testing.T, handler http.HandlerFunc) ([]KnowledgePage, error) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewNotionClient("notion-key")
	client.BaseURL = server.URL

	return client.QueryDatabase(context.Background(), "db-123")
}

func TestQueryDatabase(t *testing.T) {
	pages, err := queryTestDatabase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db-123/query", r.URL.Path)
		assert.Equal(t, "Bearer notion-key", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))

		_, _ = w.Write([]byte(`{
			"results": [
				{
					"id": "page-1",
					"url": "https://notion.so/page-1",
					"last_edited_time": "2024-01-02T03:04:05.000Z",
					"cover": {"type": "external", "external": {"url": "https://img.example/cover.png"}},
					"properties": {
						"Name": {"title": [{"plain_text": "Getting Started"}]},
						"Description": {"rich_text": [{"plain_text": "First steps."}]}
					}
				},
				{
					"id": "page-2",
					"url": "https://notion.so/page-2",
					"last_edited_time": "2024-01-03T00:00:00.000Z",
					"properties": {
						"Name": {"title": []},
						"Description": {"rich_text": []}
					}
				}
			]
		}`))
	})

	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "Getting Started", pages[0].Title)
	assert.Equal(t, "First steps.", pages[0].Description)
	assert.Equal(t, "https://img.example/cover.png", pages[0].CoverURL)

	assert.Equal(t, "Untitled", pages[1].Title)
	assert.Empty(t, pages[1].Description)
	assert.Empty(t, pages[1].CoverURL)
}

func TestQueryDatabaseErrorStatus(t *testing.T) {
	_, err := queryTestDatabase(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
