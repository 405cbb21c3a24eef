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
)

// Python engines (EasyOCR, PaddleOCR) run as sidecar services. Both take the
// same request and wrap the engine's native output in "result".
type sidecarRequest struct {
	Image string   `json:"image"`
	Lang  []string `json:"lang,omitempty"`
}

type sidecarResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

func postImage(ctx context.Context, client *http.Client, url, imagePath string, lang []string) (json.RawMessage, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	body, err := json.Marshal(sidecarRequest{
		Image: base64.StdEncoding.EncodeToString(imageData),
		Lang:  lang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("sidecar request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(slurp))
	}

	var parsed sidecarResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("sidecar error: %s", parsed.Error)
	}
	return parsed.Result, nil
}
