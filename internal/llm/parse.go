package llm

import (
	"encoding/json"
	"strings"

	"github.com/triptally/expense-assistant/pkg/common"
)

// ExtractJSON isolates the JSON object from a model response that may be
// wrapped in markdown code fences or surrounding prose.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return "", common.NewDecodeError("no JSON object found in response", nil)
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return "", common.NewDecodeError("invalid JSON object in response", nil)
	}

	return text[startIdx : endIdx+1], nil
}

// DecodeJSON extracts and unmarshals the JSON object from a model response
func DecodeJSON(text string, v interface{}) error {
	jsonText, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonText), v); err != nil {
		return common.NewDecodeError("failed to unmarshal model response", err)
	}
	return nil
}
