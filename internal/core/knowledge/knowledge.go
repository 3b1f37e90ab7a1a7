// Package knowledge distils user-provided facts from a chat transcript into
// a markdown document for the vector store.
package knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// MinLength is the shortest LLM answer treated as real knowledge; anything
// shorter means nothing new was found.
const MinLength = 50

const systemPrompt = "You are a legal knowledge extraction specialist. Extract only NEW information, " +
	"corrections, and clarifications provided by users in legal conversations."

const extractionPrompt = `Please analyze this legal conversation and extract all NEW INFORMATION, CORRECTIONS, and CLARIFICATIONS provided by the user.

Extract these types of legal knowledge:

**Legal Definitions**: Terms explained or defined by the user
**Date Corrections**: Any date changes, amendments, or clarifications provided by the user
**Party Information**: Names, roles, or details about legal parties provided by the user
**Document Details**: Classifications, corrections, or new document info provided by the user
**Legal Updates**: Law changes, statute amendments, precedent updates mentioned by the user
**Case Information**: New details about ongoing legal matters provided by the user
**Corrections**: Any corrections to previous information provided by the user

Format each as:
**[Category] - [Item]**: [Explanation/Correction as provided by user]

Only include information that was PROVIDED BY THE USER, not general legal knowledge from the assistant.

Conversation to analyze:
%s

Thread: %s
`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// Transcript renders messages as "ROLE: content" paragraphs.
func Transcript(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "%s: %s\n\n", strings.ToUpper(m.Role), m.Content)
	}
	return b.String()
}

// Extractor asks a chat model for the knowledge in a transcript.
type Extractor struct {
	client openai.Client
	model  string
}

// NewExtractor builds an extractor from the openai section.
func NewExtractor(cfg config.OpenAIConfig, opts ...option.RequestOption) *Extractor {
	base := []option.RequestOption{option.WithAPIKey(cfg.Key)}
	if cfg.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.BaseURL))
	}
	return &Extractor{client: openai.NewClient(append(base, opts...)...), model: cfg.Model}
}

// Extract returns the extracted knowledge and whether there was any.
func (e *Extractor) Extract(ctx context.Context, thread, transcript string) (string, bool, error) {
	req := chatRequest{
		Model:       e.model,
		Temperature: 0.1,
		MaxTokens:   2000,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, transcript, thread)},
		},
	}
	var out chatResponse
	if err := e.client.Post(ctx, "chat/completions", req, &out); err != nil {
		logger.Error(err, "%v: call llm failed", config.ModuleKnowledge)
		return "", false, err
	}
	if len(out.Choices) == 0 {
		return "", false, fmt.Errorf("knowledge: no choices returned")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if len(text) < MinLength {
		return "", false, nil
	}
	return text, true, nil
}

// Markdown wraps extracted knowledge in the document stored for a thread.
func Markdown(thread, knowledge string, extracted time.Time) string {
	return fmt.Sprintf(`# Legal Knowledge Update

**Source Thread:** %s
**Extracted Date:** %s
**Type:** Legal Knowledge Extraction

---

## Legal Information Updates

%s

---

*This document contains legal information, corrections, and updates extracted from user conversations to build persistent knowledge for the Legal Assistant.*
`, thread, extracted.Format("2006-01-02 15:04:05"), knowledge)
}

// FileName is the name the knowledge document is uploaded under.
func FileName(thread string, extracted time.Time) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(thread))
	if slug == "" {
		slug = "thread"
	}
	return fmt.Sprintf("knowledge-%s-%s.md", slug, extracted.Format("20060102-150405"))
}
