package expenses

import (
	"context"

	"github.com/triptally/expense-assistant/internal/llm"
)

const parseSystemPrompt = `You are an AI assistant specialized in parsing expense documents.
Analyze the provided document and extract the following key details as a JSON object:
- Amount: Total amount paid (float or string, include currency if possible)
- Date: Transaction or invoice date (in YYYY-MM-DD format if possible)
- Vendor/Store: Name of the business or vendor
- Category: Type of expense (e.g., meals, travel, accommodation, supplies)
- Description: Brief note or itemized list if available
- Document ID or Reference Number: Any identifiable document number
- Currency: The currency of the amount
- Payment Method: Method used for payment (e.g., Credit Card, Cash)
- Tax Amount: If present and relevant (float or string, include currency if possible)

Also provide a concise summary of the key information extracted.

Format your response as a JSON object with two top-level keys:
- 'extracted_data': containing the JSON object of extracted details
- 'summary': containing the summary string

If a piece of information is not found, use null for that key in the JSON object.`

// parsedDocument is the model's reply shape
type parsedDocument struct {
	ExtractedData map[string]interface{} `json:"extracted_data"`
	Summary       string                 `json:"summary"`
}

// DocumentParser extracts structured expense details from a document image
// with a vision-capable model.
type DocumentParser struct {
	client CompletionClient
}

// NewDocumentParser creates a document parser
func NewDocumentParser(client CompletionClient) *DocumentParser {
	return &DocumentParser{client: client}
}

// Parse sends the document URL to the model and returns the extracted
// details plus a summary string.
func (p *DocumentParser) Parse(ctx context.Context, documentURL string) (map[string]interface{}, string, error) {
	resp, err := p.client.Complete(ctx, llm.CompletionRequest{
		Model: p.client.VisionModel(),
		Messages: []llm.Message{
			llm.SystemMessage(parseSystemPrompt),
			llm.UserParts(
				llm.TextPart("Please analyze this expense document and extract the key details."),
				llm.ImagePart(documentURL),
			),
		},
		JSONResponse: true,
	})
	if err != nil {
		return nil, "", err
	}

	var parsed parsedDocument
	if err := llm.DecodeJSON(resp.Content, &parsed); err != nil {
		return nil, "", err
	}
	if parsed.ExtractedData == nil {
		parsed.ExtractedData = map[string]interface{}{}
	}
	return parsed.ExtractedData, parsed.Summary, nil
}
