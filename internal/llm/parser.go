package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanMarkdownWrapper strips a ```json fence some models wrap around JSON output.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// parseClassification decodes the strict-JSON verdict.
func parseClassification(content string) (ClassificationResponse, error) {
	var resp ClassificationResponse

	content = cleanMarkdownWrapper(content)
	if content == "" {
		return ClassificationResponse{}, fmt.Errorf("empty response content")
	}

	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&resp); err != nil {
		return ClassificationResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if resp.Category == "" {
		return ClassificationResponse{}, fmt.Errorf("no category found in response")
	}

	return resp, nil
}
