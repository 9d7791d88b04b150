package ocr

// LineItem is a single purchased item parsed off a receipt
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// StructuredData holds the fields recognized on a receipt
type StructuredData struct {
	Date          string     `json:"date,omitempty"`
	TotalAmount   *float64   `json:"total_amount,omitempty"`
	TaxAmount     *float64   `json:"tax_amount,omitempty"`
	VendorName    string     `json:"vendor_name,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	DocumentID    string     `json:"document_id,omitempty"`
	Items         []LineItem `json:"items,omitempty"`
}

// PassResult is the outcome of one OCR pass over one preprocessing variant
type PassResult struct {
	Method     string  `json:"method"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ClassicalResult aggregates the engine passes
type ClassicalResult struct {
	OriginalText string          `json:"original_text"`
	Best         PassResult      `json:"best_result"`
	AllPasses    []PassResult    `json:"all_preprocessing_results"`
	Structured   *StructuredData `json:"structured_data,omitempty"`
}

// ModelResult is the outcome of the vision-model OCR pass
type ModelResult struct {
	ExtractedText   string          `json:"extracted_text"`
	Structured      *StructuredData `json:"structured_data,omitempty"`
	Confidence      float64         `json:"confidence_score"`
	ExtractionNotes string          `json:"extraction_notes,omitempty"`
}

// Discrepancy records a field-level disagreement between the two OCR paths
type Discrepancy struct {
	Field          string      `json:"field"`
	ClassicalValue interface{} `json:"classical_value"`
	ModelValue     interface{} `json:"model_value"`
}

// Validation compares structured fields across the two OCR paths
type Validation struct {
	DateMatch         bool    `json:"date_match"`
	AmountMatch       bool    `json:"amount_match"`
	VendorMatch       bool    `json:"vendor_match"`
	TaxMatch          bool    `json:"tax_match"`
	OverallMatchScore float64 `json:"overall_match_score"`
}

// CombinedResult is the reconciled output of both OCR paths
type CombinedResult struct {
	ExtractedText string          `json:"extracted_text"`
	Structured    *StructuredData `json:"structured_data,omitempty"`
	Confidence    float64         `json:"confidence_score"`
	Validation    Validation      `json:"validation_results"`
	Discrepancies []Discrepancy   `json:"discrepancies"`
}

// Report is the full OCR cross-validation output for a receipt
type Report struct {
	Classical *ClassicalResult `json:"tesseract_analysis,omitempty"`
	Model     *ModelResult     `json:"llm_analysis,omitempty"`
	Combined  *CombinedResult  `json:"combined_analysis,omitempty"`
}
