package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/config"
	"github.com/triptally/expense-assistant/pkg/logger"
	"go.uber.org/zap"
)

// Client calls an OpenAI-compatible chat completions API
type Client struct {
	baseURL        string
	apiKey         string
	model          string
	visionModel    string
	embeddingModel string
	httpClient     *http.Client
}

// NewClient constructs a new completion client from configuration
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}

	timeout := 120 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		visionModel:    cfg.VisionModel,
		embeddingModel: cfg.EmbeddingModel,
		httpClient:     &http.Client{Timeout: timeout},
	}, nil
}

// Model returns the default text model
func (c *Client) Model() string { return c.model }

// VisionModel returns the multimodal model for image inputs
func (c *Client) VisionModel() string { return c.visionModel }

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Tools          []Tool          `json:"tools,omitempty"`
	ToolChoice     string          `json:"tool_choice,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role      string     `json:"role"`
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete executes a single chat completion call
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	body := chatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONResponse {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	if len(req.Tools) > 0 {
		body.Tools = req.Tools
		body.ToolChoice = "auto"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	raw, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, common.NewDecodeError("failed to parse completion response", err)
	}
	if parsed.Error != nil {
		return nil, common.NewUpstreamServiceError(
			fmt.Sprintf("completion API error: %s (%s)", parsed.Error.Message, parsed.Error.Type), nil)
	}
	if len(parsed.Choices) == 0 {
		return nil, common.NewDecodeError("completion response missing choices", nil)
	}

	choice := parsed.Choices[0]
	resp := &CompletionResponse{
		Content: strings.TrimSpace(choice.Message.Content),
		Model:   parsed.Model,
	}
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}

	if parsed.Usage != nil {
		logger.Debug("completion finished",
			zap.String("model", model),
			zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
			zap.Int("completion_tokens", parsed.Usage.CompletionTokens),
		)
	}

	return resp, nil
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns embedding vectors for the given inputs
func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	payload, err := json.Marshal(embeddingRequest{
		Model: c.embeddingModel,
		Input: inputs,
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.post(ctx, "/embeddings", payload)
	if err != nil {
		return nil, err
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, common.NewDecodeError("failed to parse embedding response", err)
	}
	if parsed.Error != nil {
		return nil, common.NewUpstreamServiceError("embedding API error: "+parsed.Error.Message, nil)
	}

	vectors := make([][]float32, len(inputs))
	for _, d := range parsed.Data {
		if d.Index >= 0 && d.Index < len(vectors) {
			vectors[d.Index] = d.Embedding
		}
	}
	return vectors, nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewUpstreamServiceError("completion request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewUpstreamServiceError("failed to read completion response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The body may still carry a structured error payload; surface the status either way
		var parsed chatResponse
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error != nil {
			return nil, common.NewUpstreamServiceError(
				fmt.Sprintf("completion API returned %d: %s", resp.StatusCode, parsed.Error.Message), nil)
		}
		return nil, common.NewUpstreamServiceError(
			fmt.Sprintf("completion API returned %d", resp.StatusCode), nil)
	}

	return raw, nil
}
