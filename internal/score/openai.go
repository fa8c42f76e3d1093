// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// openaiAPIURL is the OpenAI chat completions endpoint. Package-level var
// for test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls the OpenAI API with deterministic sampling
// (temperature zero) to favor reproducible scoring.
type OpenAIBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// openaiRequest is the request body for the chat completions API.
type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// openaiMessage is one message in the conversation.
type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiResponse is the response body from the chat completions API.
type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

// Generate sends the system and user prompts and returns the raw text of
// the first choice.
func (b *OpenAIBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := openaiRequest{
		Model: b.Model,
		Messages: []openaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}

	if len(oResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return oResp.Choices[0].Message.Content, nil
}
