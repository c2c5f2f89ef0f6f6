package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/edi/docchat/pkg/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The HTTP API is already open to all origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsRequest struct {
	Message string `json:"message"`
}

type wsResponse struct {
	Response  string `json:"response,omitempty"`
	SessionID string `json:"sessionId"`
	Error     string `json:"error,omitempty"`
}

// handleChatSocket serves a websocket chat transport. Each inbound message
// is answered with one complete reply; there is no token streaming.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	if _, ok := s.orch.SessionSummary(sessionID); !ok {
		s.writeError(w, http.StatusNotFound, chat.ErrSessionNotFound.Error()+": "+sessionID)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.logger.Info().Str("session_id", sessionID).Msg("Websocket chat opened")

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Str("session_id", sessionID).Err(err).Msg("Websocket read failed")
			}
			return
		}

		reply, err := s.orch.SendMessage(r.Context(), sessionID, req.Message)
		if err != nil {
			if writeErr := conn.WriteJSON(wsResponse{SessionID: sessionID, Error: err.Error()}); writeErr != nil {
				return
			}
			// A deleted session ends the conversation; validation and
			// backend errors do not.
			if errors.Is(err, chat.ErrSessionNotFound) {
				return
			}
			continue
		}

		if err := conn.WriteJSON(wsResponse{SessionID: sessionID, Response: reply}); err != nil {
			return
		}
	}
}
