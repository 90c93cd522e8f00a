// Package companion implements the Xela AI chat companion on top of the
// conversation store and an OpenAI-compatible chat-completions API.
package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/xelaconnect/backend/internal/config"
)

// systemPrompt frames every companion exchange.
const systemPrompt = `You are Xela, an emotionally intelligent AI companion for XelaConnect.

Your role:
- Be warm, supportive, and non-judgmental
- Help users reflect on their emotions
- Provide gentle guidance for social connection
- Never diagnose or provide medical advice
- Keep responses concise (2-3 sentences)
- Focus on belonging, growth, and connection

Tone: Calm, wise, empathetic, encouraging`

// ChatMessage is one turn sent to the chat-completions API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient generates the companion's reply to a user message given the
// prior turns of the conversation.
type ChatClient interface {
	Reply(ctx context.Context, history []ChatMessage, userMessage string) (string, error)
}

// openAIClient calls an OpenAI-compatible chat-completions endpoint.
type openAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewChatClient creates the HTTP-backed chat client.
func NewChatClient(cfg config.AIConfig) ChatClient {
	return &openAIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *openAIClient) Reply(ctx context.Context, history []ChatMessage, userMessage string) (string, error) {
	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: userMessage})

	reqBody, err := json.Marshal(map[string]any{
		"model":    c.model,
		"messages": messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}
