package provider

import (
	"errors"
	"fmt"
	"time"

	"github.com/edi/docchat/pkg/chat"
)

var (
	// ErrUnknownProvider is returned when the configured provider name is
	// not registered
	ErrUnknownProvider = errors.New("unknown ai provider")

	// ErrNoReply is returned when a provider response contained no usable
	// reply (empty candidate list, empty content parts)
	ErrNoReply = errors.New("ai response contained no usable reply")
)

// Config selects and configures a concrete backend.
type Config struct {
	Provider    string        // gemini, anthropic, openai, mock
	Model       string        // provider-specific model name
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration // HTTP timeout for REST providers
}

// New returns the backend named by cfg.Provider. Gemini is the default when
// no provider is configured.
func New(cfg Config) (chat.Backend, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGemini(cfg), nil
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	case "mock":
		return NewMock("This is a canned reply."), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
