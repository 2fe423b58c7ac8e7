package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", "test-model")
	client.BaseURL = server.URL

	return client
}

func TestGenerateText(t *testing.T) {
	var gotPath string
	var gotBody generateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		response := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": "hello there"}}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	})

	text, err := client.GenerateText(context.Background(), "say hello")

	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "say hello", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerateTextErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGenerateTextNoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	_, err := client.GenerateText(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("key", "")

	assert.Equal(t, DefaultModel, client.Model)
	assert.Equal(t, DefaultBaseURL, client.BaseURL)
	assert.NotNil(t, client.HTTPClient)
}
