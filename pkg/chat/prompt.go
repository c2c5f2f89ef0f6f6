package chat

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// documentPlaceholder marks where the document text is spliced into a template.
const documentPlaceholder = "{{document}}"

const defaultTemplate = `You are an AI assistant helping users understand documents.
The user has uploaded a document with the following content:

---
{{document}}
---

Your role is to:
- Answer questions about this document
- Explain complex concepts in simple terms
- Provide summaries when asked
- Help users understand legal, technical, or academic content

Please be helpful, accurate, and concise.
`

// PromptBuilder renders the system prompt that grounds the assistant in an
// uploaded document. Build is deterministic: the same document text always
// yields the same prompt for a given template.
type PromptBuilder struct {
	mu       sync.RWMutex
	template string
}

// NewPromptBuilder creates a builder using the default template
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{template: defaultTemplate}
}

// Build returns the system prompt for the given document text. The text is
// embedded verbatim; empty text produces a prompt with an empty document block.
func (b *PromptBuilder) Build(documentText string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.ReplaceAll(b.template, documentPlaceholder, documentText)
}

// SetTemplate replaces the template. The template must contain the
// {{document}} placeholder exactly where the document text belongs.
func (b *PromptBuilder) SetTemplate(template string) error {
	if !strings.Contains(template, documentPlaceholder) {
		return fmt.Errorf("template must contain the %s placeholder", documentPlaceholder)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.template = template
	return nil
}

// Template returns the current template.
func (b *PromptBuilder) Template() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.template
}

// LoadTemplateFile reads a template from disk and installs it.
func (b *PromptBuilder) LoadTemplateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	if err := b.SetTemplate(string(data)); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("Prompt template loaded")
	return nil
}
