package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/edi/docchat/pkg/chat"
	"github.com/edi/docchat/pkg/extract"
	"github.com/edi/docchat/pkg/provider"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.options.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		s.writeError(w, http.StatusBadRequest, chat.ErrEmptyFileName.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	text, err := extract.Extract(data, header.Filename)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ExtractionErrorsTotal.Inc()
		}
		s.logger.Warn().Str("file", header.Filename).Err(err).Msg("Text extraction failed")
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.orch.CreateSession(header.Filename, text)
	if err != nil {
		s.writeError(w, s.statusFor(err), err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.UploadsTotal.Inc()
	}

	s.logger.Info().
		Str("file", header.Filename).
		Int64("size", header.Size).
		Str("session_id", session.ID).
		Int("text_length", len(text)).
		Msg("File uploaded")

	s.writeJSON(w, http.StatusOK, UploadResponse{
		Message:    "File processed successfully",
		SessionID:  session.ID,
		FileName:   header.Filename,
		TextLength: len(text),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.orch.SendMessage(r.Context(), sessionID, req.Message)
	if err != nil {
		s.writeError(w, s.statusFor(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{
		Response:  reply,
		SessionID: sessionID,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	summary, ok := s.orch.SessionSummary(sessionID)
	if !ok {
		s.writeError(w, http.StatusNotFound, chat.ErrSessionNotFound.Error()+": "+sessionID)
		return
	}

	s.writeJSON(w, http.StatusOK, SessionResponse{
		SessionID:    summary.ID,
		FileName:     summary.SourceName,
		MessageCount: summary.MessageCount,
		CreatedAt:    summary.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	if err := s.orch.DeleteSession(r.Context(), sessionID); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps core errors to HTTP status codes.
func (s *Server) statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrEmptyFileName):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrBackendFailure), errors.Is(err, provider.ErrNoReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
