package llm

import "encoding/json"

// Message roles accepted by the chat completions API
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ContentPart is a single element of a multimodal user message
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL holds an image reference, either a fetchable URL or a data URL
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart builds an image content part
func ImagePart(url string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}}
}

// Message is a single chat message. Content is either a string or []ContentPart.
type Message struct {
	Role       string      `json:"role"`
	Content    interface{} `json:"content"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	ToolCalls  []toolCall  `json:"tool_calls,omitempty"`
}

// SystemMessage builds a system message
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a plain-text user message
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// UserParts builds a multimodal user message
func UserParts(parts ...ContentPart) Message {
	return Message{Role: RoleUser, Content: parts}
}

// ToolResultMessage builds a tool response message for a tool call
func ToolResultMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// Tool describes a function the model may call
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction is the function declaration inside a tool
type ToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// NewFunctionTool builds a function tool with a JSON schema for its parameters
func NewFunctionTool(name, description string, parameters map[string]interface{}) Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// CompletionRequest describes a single chat completion call
type CompletionRequest struct {
	Model        string
	Messages     []Message
	Temperature  *float32
	MaxTokens    int
	JSONResponse bool
	Tools        []Tool
}

// ToolCall is a function invocation requested by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// CompletionResponse is the parsed result of a completion call
type CompletionResponse struct {
	Content   string
	ToolCalls []ToolCall
	Model     string
}

// Usage reports token consumption for a completion
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
