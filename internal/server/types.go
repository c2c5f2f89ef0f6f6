package server

// Options configures the HTTP server.
type Options struct {
	Host        string
	Port        int
	MaxUploadMB int
}

// UploadResponse is returned after a successful document upload.
type UploadResponse struct {
	Message    string `json:"message"`
	SessionID  string `json:"sessionId"`
	FileName   string `json:"fileName"`
	TextLength int    `json:"textLength"`
}

// SendMessageRequest is the body of a chat message request.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant reply.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

// SessionResponse is the session metadata view.
type SessionResponse struct {
	SessionID    string `json:"sessionId"`
	FileName     string `json:"fileName"`
	MessageCount int    `json:"messageCount"`
	CreatedAt    string `json:"createdAt"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
