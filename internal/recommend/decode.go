package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyRecommendation means the model answered but left a field blank.
	ErrEmptyRecommendation = errors.New("recommend: summary and recommendation are required")

	// ErrEmptyOutput means the model produced no text at all.
	ErrEmptyOutput = errors.New("recommend: model returned no output")

	// ErrMalformedOutput means the model output was not a single JSON object.
	ErrMalformedOutput = errors.New("recommend: malformed model output")
)

// Recommendation is the validated two-field result of a synthesis call.
type Recommendation struct {
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

// DecodeRecommendation turns raw model text into a Recommendation or an
// error. Both fields must be non-blank after trimming; blank output counts
// as an empty recommendation.
func DecodeRecommendation(raw string) (Recommendation, error) {
	var rec Recommendation
	if err := DecodeObject(raw, &rec); err != nil {
		if errors.Is(err, ErrEmptyOutput) {
			return Recommendation{}, fmt.Errorf("%w: %w", ErrEmptyRecommendation, err)
		}
		return Recommendation{}, err
	}
	rec.Summary = strings.TrimSpace(rec.Summary)
	rec.Recommendation = strings.TrimSpace(rec.Recommendation)
	if rec.Summary == "" || rec.Recommendation == "" {
		return Recommendation{}, ErrEmptyRecommendation
	}
	return rec, nil
}

// DecodeObject strictly decodes exactly one JSON object from model output,
// tolerating a surrounding markdown code fence.
func DecodeObject(raw string, v any) error {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return ErrEmptyOutput
	}
	if !strings.HasPrefix(cleaned, "{") {
		return fmt.Errorf("%w: expected a json object", ErrMalformedOutput)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after object", ErrMalformedOutput)
	}
	return nil
}

// CleanJSON removes markdown code blocks if present (e.g. ```json ... ```).
func CleanJSON(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "```") {
		input = strings.TrimPrefix(input, "```")
		if len(input) >= 4 && strings.EqualFold(input[:4], "json") {
			input = input[4:]
		}
	}
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
