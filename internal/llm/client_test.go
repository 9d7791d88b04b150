package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.LLMConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		VisionModel:    "test-vision-model",
		EmbeddingModel: "test-embedding-model",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return client, server
}

func TestCompleteReturnsContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"model": "test-model",
			"choices": [{"message": {"role": "assistant", "content": "  hello  "}, "finish_reason": "stop"}]
		}`))
	})

	resp, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{UserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Empty(t, resp.ToolCalls)
}

func TestCompleteParsesToolCalls(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "auto", req["tool_choice"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "", "tool_calls": [
				{"id": "call_1", "type": "function", "function": {"name": "search_vendor_info", "arguments": "{\"vendor_name\":\"Hilton\"}"}}
			]}, "finish_reason": "tool_calls"}]
		}`))
	})

	resp, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{UserMessage("verify")},
		Tools: []Tool{NewFunctionTool("search_vendor_info", "Search vendor", map[string]interface{}{
			"type": "object",
		})},
	})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "search_vendor_info", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"vendor_name":"Hilton"}`, string(resp.ToolCalls[0].Arguments))
}

func TestCompleteUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "rate_limit"}}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{UserMessage("hi")},
	})
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeUpstreamService, appErr.Code)
}

func TestCompleteMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{UserMessage("hi")},
	})
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeDecode, appErr.Code)
}

func TestEmbedOrdersVectorsByIndex(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": [
			{"index": 1, "embedding": [0.3, 0.4]},
			{"index": 0, "embedding": [0.1, 0.2]}
		]}`))
	})

	vectors, err := client.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
}

func TestDecodeJSONStripsFences(t *testing.T) {
	var out struct {
		RiskFactors []string `json:"risk_factors"`
	}
	text := "```json\n{\"risk_factors\": [\"amount mismatch\"]}\n```"
	require.NoError(t, DecodeJSON(text, &out))
	assert.Equal(t, []string{"amount mismatch"}, out.RiskFactors)
}

func TestDecodeJSONSurroundingProse(t *testing.T) {
	var out map[string]interface{}
	text := "Here is the analysis you asked for: {\"confidence_score\": 0.8} hope it helps"
	require.NoError(t, DecodeJSON(text, &out))
	assert.Equal(t, 0.8, out["confidence_score"])
}

func TestDecodeJSONNoObject(t *testing.T) {
	var out map[string]interface{}
	err := DecodeJSON("no json here", &out)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeDecode, appErr.Code)
}
