package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// OllamaEngine asks a local vision model for a verbatim transcription.
type OllamaEngine struct {
	baseURL string
	model   string
	client  *http.Client
}

type OllamaRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2-vision"
)

const transcribePrompt = `
You are an OCR engine.
The image is a business card or a passport page.

Transcribe every piece of text you can see, line by line, top to bottom.

* Copy characters exactly, including punctuation and the '<' fillers of a machine readable zone.
* Do not translate, summarise, correct or explain anything.
* Do not wrap the answer in code fences or add any other text.
`

func NewOllamaEngine(baseURL, model string, client *http.Client) *OllamaEngine {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if client == nil {
		client = &http.Client{}
	}

	return &OllamaEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

func (o *OllamaEngine) Name() string { return Ollama }

func (o *OllamaEngine) ProcessImage(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	request := OllamaRequest{
		Model:  o.model,
		Prompt: transcribePrompt,
		Images: []string{base64.StdEncoding.EncodeToString(imageData)},
		Stream: false,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var ollamaResp OllamaResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return extractTranscript(ollamaResp.Response), nil
}

func (o *OllamaEngine) Close() error {
	return nil
}

// extractTranscript drops the code fence some models wrap around answers.
func extractTranscript(input string) string {
	text := strings.TrimSpace(input)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Opening fence may carry a language tag: ```text
	if nl := strings.Index(text, "\n"); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
