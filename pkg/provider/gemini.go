package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edi/docchat/pkg/chat"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultGeminiTimeout = 60 * time.Second
)

// Gemini implements chat.Backend against the Google Gemini REST API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGemini creates a new Gemini backend
func NewGemini(cfg Config) *Gemini {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultGeminiTimeout
	}
	return &Gemini{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name
func (g *Gemini) Name() string {
	return "gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// buildContents serializes the full conversation for one generateContent
// call. Gemini has no dedicated system turn in this payload shape, so the
// system prompt goes first as a user turn.
func (g *Gemini) buildContents(systemPrompt string, history []chat.Message, userMessage string) []geminiContent {
	contents := make([]geminiContent, 0, len(history)+2)

	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: systemPrompt}},
	})

	for _, msg := range history {
		contents = append(contents, geminiContent{
			Role:  geminiRole(msg.Role),
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: userMessage}},
	})

	return contents
}

func geminiRole(role string) string {
	if role == chat.RoleAssistant {
		return "model"
	}
	return "user"
}

// Respond makes a generateContent call with the full conversational context
func (g *Gemini) Respond(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error) {
	payload := geminiRequest{Contents: g.buildContents(systemPrompt, history, userMessage)}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidates", ErrNoReply)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
