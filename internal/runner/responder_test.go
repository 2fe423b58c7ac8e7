package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func askServer(t *testing.T, handler http.HandlerFunc) (string, error) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	r := &Runner{HTTPClient: server.Client()}

	target := Target{
		Endpoint: server.URL,
		APIKey:   "secret-key",
		Model:    "gpt-4o-mini",
	}

	return r.AskTarget(context.Background(), target, "How do I reset my password?")
}

func TestAskTargetEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "chat completion",
			body: `{"choices": [{"message": {"content": "Use the reset link."}}]}`,
			want: "Use the reset link.",
		},
		{
			name: "nested output",
			body: `{"output": [{"content": [{"text": "Use the reset link."}]}]}`,
			want: "Use the reset link.",
		},
		{
			name: "flat response",
			body: `{"response": "Use the reset link."}`,
			want: "Use the reset link.",
		},
		{
			name: "flat text",
			body: `{"text": "Use the reset link."}`,
			want: "Use the reset link.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, err := askServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				_, _ = w.Write([]byte(tt.body))
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, answer)
		})
	}
}

func TestAskTargetUnexpectedFormat(t *testing.T) {
	_, err := askServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"something": "else"}`))
	})

	require.ErrorIs(t, err, ErrUnexpectedFormat)
}

func TestAskTargetErrorStatus(t *testing.T) {
	_, err := askServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestAskTargetMalformedBody(t *testing.T) {
	_, err := askServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid chatbot response body")
}
