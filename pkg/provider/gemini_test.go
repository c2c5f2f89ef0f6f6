package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edi/docchat/pkg/chat"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*Gemini, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewGemini(Config{APIKey: "test-key"})
	g.baseURL = srv.URL
	return g, srv
}

func geminiReply(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestGemini_BuildContents(t *testing.T) {
	g := NewGemini(Config{})

	history := []chat.Message{
		{Role: chat.RoleUser, Content: "first question", Timestamp: time.Now()},
		{Role: chat.RoleAssistant, Content: "first answer", Timestamp: time.Now()},
	}

	contents := g.buildContents("system: The sky is blue.", history, "What color is the sky?")

	require.Len(t, contents, 4)

	// System prompt is the first turn, sent with the user role.
	assert.Equal(t, "user", contents[0].Role)
	assert.Contains(t, contents[0].Parts[0].Text, "The sky is blue.")

	// History preserves order; assistant translates to "model".
	assert.Equal(t, "user", contents[1].Role)
	assert.Equal(t, "first question", contents[1].Parts[0].Text)
	assert.Equal(t, "model", contents[2].Role)
	assert.Equal(t, "first answer", contents[2].Parts[0].Text)

	// New user message is the final turn.
	assert.Equal(t, "user", contents[3].Role)
	assert.Equal(t, "What color is the sky?", contents[3].Parts[0].Text)
}

func TestGemini_Respond(t *testing.T) {
	var captured geminiRequest

	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Contains(t, r.URL.Path, defaultGeminiModel+":generateContent")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiReply("It is blue.")))
	})

	reply, err := g.Respond(context.Background(), "Doc: The sky is blue.", nil, "What color is the sky?")
	require.NoError(t, err)
	assert.Equal(t, "It is blue.", reply)

	require.Len(t, captured.Contents, 2)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "The sky is blue.")
	assert.Equal(t, "What color is the sky?", captured.Contents[1].Parts[0].Text)
}

func TestGemini_RespondNonOKStatus(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	})

	_, err := g.Respond(context.Background(), "prompt", nil, "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGemini_RespondMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty candidates", `{"candidates":[]}`},
		{"missing candidates", `{}`},
		{"empty parts", `{"candidates":[{"content":{"parts":[]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := g.Respond(context.Background(), "prompt", nil, "question")
			assert.ErrorIs(t, err, ErrNoReply)
		})
	}
}

func TestGemini_RespondInvalidJSON(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := g.Respond(context.Background(), "prompt", nil, "question")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoReply)
}

func TestGemini_RespondContextCancelled(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Respond(ctx, "prompt", nil, "question")
	assert.Error(t, err)
}

func TestGemini_Defaults(t *testing.T) {
	g := NewGemini(Config{})
	assert.Equal(t, defaultGeminiModel, g.model)
	assert.Equal(t, "gemini", g.Name())
}
