package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const promptTemplate = `You are an expert in password security and readability.

Given the password: %s

Suggest separators that would increase readability without diminishing password strength. Explain your reasoning.

Respond with a JSON object of the form {"suggestedSeparators": "<suggested separators>", "reasoning": "<reasoning behind the suggested separators>"}.`

// HTTPAdvisor talks to an OpenAI-compatible chat completions endpoint.
type HTTPAdvisor struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHTTPAdvisor returns an advisor posting to baseURL + "/chat/completions".
func NewHTTPAdvisor(baseURL, apiKey, model string, timeout time.Duration) *HTTPAdvisor {
	return &HTTPAdvisor{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// separatorOutput is the JSON object the model is asked to produce.
type separatorOutput struct {
	SuggestedSeparators string `json:"suggestedSeparators"`
	Reasoning           string `json:"reasoning"`
}

// SuggestSeparators implements Advisor.
func (c *HTTPAdvisor) SuggestSeparators(ctx context.Context, password string) (Suggestion, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: fmt.Sprintf(promptTemplate, password)}},
	}
	body.ResponseFormat.Type = "json_object"

	buf, err := json.Marshal(body)
	if err != nil {
		return Suggestion{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return Suggestion{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Suggestion{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if err := json.Unmarshal(data, &ae); err != nil || ae.Error.Message == "" {
			return Suggestion{}, fmt.Errorf("API error (HTTP %d)", resp.StatusCode)
		}
		return Suggestion{}, fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, ae.Error.Message)
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return Suggestion{}, fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return Suggestion{}, errors.New("response has no choices")
	}

	var out separatorOutput
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &out); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}
	return Suggestion{SuggestedSeparator: out.SuggestedSeparators, Reasoning: out.Reasoning}, nil
}
