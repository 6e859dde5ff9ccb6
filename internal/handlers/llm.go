package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"humsafar/internal/biodata"
)

// ParseBiodataLLM handles POST /api/v1/biodata/parse-llm
// Body: { "text": "..." }
// Gemini-assisted extraction for messages the heuristic parser handles
// poorly. The response shape matches the heuristic parser exactly.
func ParseBiodataLLM(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	text, _ := body["text"].(string)
	if strings.TrimSpace(text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	profile, err := parseWithGemini(r.Context(), text)
	if err != nil {
		writeJSONResp(w, http.StatusBadGateway, map[string]any{
			"error":    err.Error(),
			"fallback": biodata.Parse(text),
		})
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{"profile": profile})
}

// parseWithGemini uses Google's Gemini API to extract structured fields
// from a raw biodata message.
func parseWithGemini(ctx context.Context, text string) (biodata.Profile, error) {
	var out biodata.Profile

	apiKey := os.Getenv("GEMINI_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return out, errors.New("missing GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return out, fmt.Errorf("failed to init Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-lite")
	// Ask Gemini to return JSON only
	model.GenerationConfig = genai.GenerationConfig{ResponseMIMEType: "application/json"}

	prompt := `You are an expert data extraction assistant. Extract fields from the following matrimonial biodata message and return clean JSON.

Here are the rules:
1. The allowed keys are: "name", "gender", "age", "height", "dob", "tob", "pob", "city", "address", "caste", "gotra", "complexion", "diet", "education", "profession", "income", "company", "father", "fatherOcc", "mother", "motherOcc", "siblings", "contact", "manglik".
2. If a field cannot be found in the text, its value must be null.
3. "gender" must be "Male" or "Female"; "manglik" must be "Manglik", "Non-Manglik" or "Anshik".
4. Your entire response must be ONLY the JSON object. Do not include any explanations or any text before or after the JSON.
5. Clean the extracted data by removing unnecessary newline characters and extra whitespace.

Here is the raw text:
"""
` + text + `
"""`

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return out, fmt.Errorf("gemini generation failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return out, errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		} else {
			sb.WriteString(fmt.Sprint(part))
		}
	}
	jsonStr := strings.TrimSpace(sb.String())
	if jsonStr == "" {
		return out, errors.New("no text in Gemini response")
	}

	// Normalize: strip code fences and extract the first JSON object if needed
	jsonStr = stripCodeFences(jsonStr)
	if candidate, ok := extractFirstJSON(jsonStr); ok {
		jsonStr = candidate
	}

	// Tolerate nulls by unmarshaling into a map[string]any first
	var tmp map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &tmp); err != nil {
		return out, fmt.Errorf("failed to parse Gemini JSON: %w", err)
	}
	cleaned := make(map[string]string, len(tmp))
	for k, v := range tmp {
		if v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			cleaned[k] = strings.TrimSpace(t)
		default:
			b, _ := json.Marshal(t)
			cleaned[k] = strings.TrimSpace(string(b))
		}
	}

	// Round-trip through JSON so unknown keys are dropped and the rest
	// land on the typed struct.
	b, _ := json.Marshal(cleaned)
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to map Gemini JSON: %w", err)
	}
	return out, nil
}

// stripCodeFences removes surrounding Markdown code fences like ```json ... ```.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// drop leading backticks and optional language tag
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		if i := strings.IndexByte(s, '\n'); i != -1 {
			first := strings.TrimSpace(s[:i])
			if len(first) > 0 && len(first) < 20 { // likely a language tag like json
				s = s[i+1:]
			}
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// extractFirstJSON attempts to extract the first balanced JSON object or array.
func extractFirstJSON(s string) (string, bool) {
	if obj, ok := extractBalanced(s, '{', '}'); ok {
		return obj, true
	}
	if arr, ok := extractBalanced(s, '[', ']'); ok {
		return arr, true
	}
	return "", false
}

func extractBalanced(s string, open, close rune) (string, bool) {
	start := -1
	depth := 0
	for i, r := range s {
		if r == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if r == close {
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
