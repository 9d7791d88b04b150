package ocr

import (
	"context"
	"encoding/base64"

	"github.com/triptally/expense-assistant/internal/llm"
)

const extractionSystemPrompt = `You are an AI specialized in extracting information from receipts.
Analyze the provided receipt image and extract:
1. All text content
2. Structured data including:
   - Date
   - Total amount
   - Tax amount
   - Vendor name
   - Items with descriptions and amounts
   - Payment method
   - Document ID/Reference number

Format your response as a JSON object with:
- extracted_text: The complete text content
- structured_data: Object containing all extracted fields
- confidence_score: Your confidence in the extraction (0-1)
- extraction_notes: Any notes about the extraction process`

// CompletionClient is the slice of the LLM client the model OCR path needs
type CompletionClient interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
	VisionModel() string
}

// ModelOCR extracts receipt content with a vision-capable model
type ModelOCR struct {
	client CompletionClient
}

// NewModelOCR creates the model-based OCR path
func NewModelOCR(client CompletionClient) *ModelOCR {
	return &ModelOCR{client: client}
}

// Analyze sends the image inline as a base64 data URL and parses the
// structured JSON reply.
func (m *ModelOCR) Analyze(ctx context.Context, imageData []byte) (*ModelResult, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageData)

	resp, err := m.client.Complete(ctx, llm.CompletionRequest{
		Model: m.client.VisionModel(),
		Messages: []llm.Message{
			llm.SystemMessage(extractionSystemPrompt),
			llm.UserParts(
				llm.TextPart("Please extract all information from this receipt image."),
				llm.ImagePart(dataURL),
			),
		},
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	var result ModelResult
	if err := llm.DecodeJSON(resp.Content, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
