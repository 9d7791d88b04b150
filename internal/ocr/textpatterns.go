package ocr

import (
	"math"
	"regexp"
	"strings"
)

// Leading-whitespace stddev above this marks the left margin as unstable
const indentationStddevLimit = 2.0

var suspiciousTextPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"multiple_decimals", regexp.MustCompile(`\d+\.\d+\.\d+`)},
	{"inconsistent_spacing", regexp.MustCompile(`\d{2,}\s{2,}\d{2,}`)},
	{"suspicious_chars", regexp.MustCompile(`[^a-zA-Z0-9\s\.\,\$\-\+\/]`)},
}

var (
	headerPattern = regexp.MustCompile(`(?i)RECEIPT|INVOICE|BILL`)
	footerPattern = regexp.MustCompile(`(?i)THANK YOU|TOTAL|SUBTOTAL`)
	amountPattern = regexp.MustCompile(`\$\d+\.\d{2}`)
)

// SuspiciousPattern is one matched fraud-indicative text pattern
type SuspiciousPattern struct {
	Pattern string   `json:"pattern"`
	Matches []string `json:"matches"`
}

// TextPatternReport summarizes structural checks over the recognized text
type TextPatternReport struct {
	SuspiciousPatterns []SuspiciousPattern    `json:"suspicious_patterns"`
	TextConsistency    map[string]interface{} `json:"text_consistency"`
	FormatAnalysis     map[string]bool        `json:"format_analysis"`
}

// AnalyzeTextPatterns inspects recognized text for telltale artifacts of
// edited receipts: malformed numbers, odd spacing, stray characters, and
// missing structural elements.
func AnalyzeTextPatterns(text string) *TextPatternReport {
	report := &TextPatternReport{
		SuspiciousPatterns: []SuspiciousPattern{},
		TextConsistency:    map[string]interface{}{},
		FormatAnalysis:     map[string]bool{},
	}
	if text == "" {
		return report
	}

	for _, p := range suspiciousTextPatterns {
		if matches := p.pattern.FindAllString(text, -1); len(matches) > 0 {
			report.SuspiciousPatterns = append(report.SuspiciousPatterns, SuspiciousPattern{
				Pattern: p.name,
				Matches: matches,
			})
		}
	}

	lines := strings.Split(text, "\n")
	totalLen := 0
	empty := 0
	for _, line := range lines {
		totalLen += len(line)
		if strings.TrimSpace(line) == "" {
			empty++
		}
	}
	avgLen := 0.0
	if len(lines) > 0 {
		avgLen = float64(totalLen) / float64(len(lines))
	}
	report.TextConsistency = map[string]interface{}{
		"line_count":               len(lines),
		"avg_line_length":          avgLen,
		"empty_lines":              empty,
		"inconsistent_indentation": indentationInconsistent(lines),
	}

	report.FormatAnalysis = map[string]bool{
		"has_header": headerPattern.MatchString(text),
		"has_footer": footerPattern.MatchString(text),
		"has_date":   datePattern.MatchString(text),
		"has_amount": amountPattern.MatchString(text),
	}

	return report
}

// indentationInconsistent flags text whose non-blank lines vary widely in
// leading whitespace (population stddev above 2 columns). Receipts print
// with a stable left margin; edits tend to break it.
func indentationInconsistent(lines []string) bool {
	var indents []float64
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indents = append(indents, float64(len(line)-len(strings.TrimLeft(line, " \t"))))
	}
	if len(indents) == 0 {
		return false
	}

	mean := 0.0
	for _, n := range indents {
		mean += n
	}
	mean /= float64(len(indents))

	variance := 0.0
	for _, n := range indents {
		variance += (n - mean) * (n - mean)
	}
	variance /= float64(len(indents))

	return math.Sqrt(variance) > indentationStddevLimit
}
