package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edi/docchat/internal/metrics"
	"github.com/edi/docchat/pkg/chat"
	"github.com/edi/docchat/pkg/provider"
)

func newTestServer(t *testing.T, backend chat.Backend) *Server {
	t.Helper()

	store := chat.NewStore(chat.NewPromptBuilder())
	orch := chat.NewOrchestrator(store, backend, nil, metrics.New())

	srv, err := New(Options{}, orch, metrics.New(), zerolog.Nop())
	require.NoError(t, err)
	return srv
}

func uploadRequest(t *testing.T, fileName, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doUpload(t *testing.T, handler http.Handler, fileName, content string) UploadResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, uploadRequest(t, fileName, content))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServer_UploadAndChat(t *testing.T) {
	mock := provider.NewMock("It is blue.")
	srv := newTestServer(t, mock)
	handler := srv.Handler()

	uploaded := doUpload(t, handler, "sky.txt", "The sky is blue.")
	assert.Equal(t, "File processed successfully", uploaded.Message)
	assert.Equal(t, "sky.txt", uploaded.FileName)
	assert.Equal(t, len("The sky is blue."), uploaded.TextLength)
	require.NotEmpty(t, uploaded.SessionID)

	body, _ := json.Marshal(SendMessageRequest{Message: "What color is the sky?"})
	req := httptest.NewRequest(http.MethodPost, "/api/chat/"+uploaded.SessionID, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var chatResp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp))
	assert.Equal(t, "It is blue.", chatResp.Response)
	assert.Equal(t, uploaded.SessionID, chatResp.SessionID)

	// The backend saw the document in the system prompt and the question
	// as the final turn.
	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].SystemPrompt, "The sky is blue.")
	assert.Equal(t, "What color is the sky?", calls[0].UserMessage)
}

func TestServer_UploadUnsupportedFormat(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, uploadRequest(t, "image.png", "binary-ish"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "unsupported")
}

func TestServer_ChatValidation(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))
	handler := srv.Handler()

	uploaded := doUpload(t, handler, "a.txt", "text")

	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty message", `{"message": ""}`, http.StatusBadRequest},
		{"whitespace message", `{"message": "   "}`, http.StatusBadRequest},
		{"missing field", `{}`, http.StatusBadRequest},
		{"invalid body", `{not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/chat/"+uploaded.SessionID, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestServer_ChatUnknownSession(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))
	handler := srv.Handler()

	body, _ := json.Marshal(SendMessageRequest{Message: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/chat/no-such-id", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "no-such-id")
}

func TestServer_ChatBackendFailure(t *testing.T) {
	mock := provider.NewMock("unused")
	mock.Err = errors.New("upstream down")
	srv := newTestServer(t, mock)
	handler := srv.Handler()

	uploaded := doUpload(t, handler, "a.txt", "text")

	body, _ := json.Marshal(SendMessageRequest{Message: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/chat/"+uploaded.SessionID, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServer_GetSession(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("reply"))
	handler := srv.Handler()

	uploaded := doUpload(t, handler, "report.txt", "content")

	req := httptest.NewRequest(http.MethodGet, "/api/chat/session/"+uploaded.SessionID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uploaded.SessionID, resp.SessionID)
	assert.Equal(t, "report.txt", resp.FileName)
	assert.Zero(t, resp.MessageCount)
	assert.NotEmpty(t, resp.CreatedAt)
}

func TestServer_GetSessionNotFound(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))

	req := httptest.NewRequest(http.MethodGet, "/api/chat/session/absent", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_DeleteSessionIdempotent(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))
	handler := srv.Handler()

	uploaded := doUpload(t, handler, "a.txt", "text")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/chat/session/"+uploaded.SessionID, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, "attempt %d", i)
	}

	// Summary reports absent after deletion.
	req := httptest.NewRequest(http.MethodGet, "/api/chat/session/"+uploaded.SessionID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RequestIDHeader(t *testing.T) {
	srv := newTestServer(t, provider.NewMock("ok"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
