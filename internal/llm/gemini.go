package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// geminiAPIBaseURL is a var to allow test overrides via httptest.
var geminiAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAPIBaseURL returns the current Gemini API base URL.
// Exposed for use by integration tests via httptest servers.
func GeminiAPIBaseURL() string { return geminiAPIBaseURL }

// SetGeminiAPIBaseURL overrides the Gemini API base URL.
// Intended for use in tests only.
func SetGeminiAPIBaseURL(u string) { geminiAPIBaseURL = u }

type geminiProvider struct {
	model  string
	apiKey string // unexported; never serialized by encoding/json
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	// ResponseMIMEType forces JSON output; prose answers are useless here.
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
	Error        *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *geminiProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.UserPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens:  maxTokens,
			ResponseMIMEType: "application/json",
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	if req.Temperature != 0 {
		t := req.Temperature
		body.GenerationConfig.Temperature = &t
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBaseURL, model)
	status, respBytes, err := postJSON(ctx, url, map[string]string{"x-goog-api-key": p.apiKey}, body)
	if err != nil {
		return nil, err
	}
	respStr := string(respBytes)

	var gr geminiResponse
	if err := json.Unmarshal(respBytes, &gr); err != nil {
		return nil, fmt.Errorf("parsing response JSON (HTTP %d, body: %s): %w", status, truncate(respStr, 200), err)
	}

	// Check status code first, then structured error field.
	if status != http.StatusOK {
		if gr.Error != nil {
			return nil, fmt.Errorf("gemini: %s: %s", gr.Error.Status, gr.Error.Message)
		}
		return nil, fmt.Errorf("gemini: HTTP %d: %s", status, truncate(respStr, 200))
	}

	if len(gr.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: no candidates in response")
	}
	var content string
	for _, part := range gr.Candidates[0].Content.Parts {
		content += part.Text
	}
	if content == "" {
		return nil, fmt.Errorf("gemini: no text content in response (finish reason %q)", gr.Candidates[0].FinishReason)
	}

	modelEcho := gr.ModelVersion
	if modelEcho == "" {
		modelEcho = model
	}
	return &Response{
		Content: content,
		Model:   fmt.Sprintf("gemini:%s", modelEcho),
	}, nil
}
