package decide

import (
	"encoding/json"
	"strings"
)

// parsedResponse holds whatever could be recovered from raw model output.
type parsedResponse struct {
	Answer     string
	Rationale  string
	Confidence float64
}

// Defaults for fields the model left out of its JSON.
const (
	defaultAnswer     = "Unable to determine answer."
	defaultRationale  = "Insufficient information to provide rationale."
	defaultConfidence = 0.5
)

// extractStrategy tries to locate a JSON payload inside raw model output.
// Strategies are tried in order; the first one that matches wins.
type extractStrategy func(raw string) (string, bool)

var extractStrategies = []extractStrategy{
	extractFencedJSON,
	extractBraceSpan,
}

// ParseResponse recovers a structured answer from raw completion text.
// If no JSON payload can be located, the whole text becomes the answer at
// confidence 0.5; if a located payload fails to parse, confidence drops
// to 0.3. Parsing never fails outright.
func ParseResponse(raw string) parsedResponse {
	var candidate string
	found := false
	for _, strategy := range extractStrategies {
		if c, ok := strategy(raw); ok {
			candidate = c
			found = true
			break
		}
	}

	if !found {
		return parsedResponse{
			Answer:     raw,
			Rationale:  "Response could not be parsed as JSON",
			Confidence: 0.5,
		}
	}

	var fields struct {
		Answer     *string  `json:"answer"`
		Rationale  *string  `json:"rationale"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return parsedResponse{
			Answer:     raw,
			Rationale:  "Response parsing failed",
			Confidence: 0.3,
		}
	}

	parsed := parsedResponse{
		Answer:     defaultAnswer,
		Rationale:  defaultRationale,
		Confidence: defaultConfidence,
	}
	if fields.Answer != nil {
		parsed.Answer = *fields.Answer
	}
	if fields.Rationale != nil {
		parsed.Rationale = *fields.Rationale
	}
	if fields.Confidence != nil {
		parsed.Confidence = *fields.Confidence
	}
	return parsed
}

// extractFencedJSON pulls the interior of a ```json fenced block.
func extractFencedJSON(raw string) (string, bool) {
	start := strings.Index(raw, "```json")
	if start < 0 {
		return "", false
	}
	start += len("```json")

	end := strings.Index(raw[start:], "```")
	if end < 0 {
		return "", false
	}

	return strings.TrimSpace(raw[start : start+end]), true
}

// extractBraceSpan takes the substring from the first { to the last }.
func extractBraceSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}
