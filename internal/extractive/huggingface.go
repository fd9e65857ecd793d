package extractive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const huggingFaceBaseURL = "https://api-inference.huggingface.co/models/"

// HuggingFaceToken returns the inference API token from the environment.
func HuggingFaceToken() string {
	for _, name := range []string{"HF_API_TOKEN", "HUGGINGFACEHUB_API_TOKEN", "HF_TOKEN"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// HuggingFaceProvider calls a hosted extractive QA model such as
// deepset/minilm-uncased-squad2 through the inference API.
type HuggingFaceProvider struct {
	model   string
	token   string
	baseURL string
	client  *http.Client
}

// NewHuggingFace creates a provider for model. The token may be empty for
// public models, at a lower rate limit.
func NewHuggingFace(model, token string) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		model:   model,
		token:   token,
		baseURL: huggingFaceBaseURL,
		client:  &http.Client{},
	}
}

func (p *HuggingFaceProvider) Name() string { return "huggingface/" + p.model }

type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResult struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

func (p *HuggingFaceProvider) Answer(ctx context.Context, question, passage string) (*Answer, error) {
	body, err := json.Marshal(qaRequest{Inputs: qaInputs{Question: question, Context: passage}})
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+p.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading huggingface response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		// 503 means the model is still loading on the hosted side.
		return nil, fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	result, err := decodeQAResult(respBody)
	if err != nil {
		return nil, err
	}
	return &Answer{Text: strings.TrimSpace(result.Answer), Score: result.Score}, nil
}

// decodeQAResult accepts either a single result object or a ranked list.
func decodeQAResult(data []byte) (qaResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []qaResult
		if err := json.Unmarshal(data, &list); err != nil {
			return qaResult{}, fmt.Errorf("decoding huggingface response: %w", err)
		}
		if len(list) == 0 {
			return qaResult{}, fmt.Errorf("huggingface returned no answers")
		}
		return list[0], nil
	}
	var single qaResult
	if err := json.Unmarshal(data, &single); err != nil {
		return qaResult{}, fmt.Errorf("decoding huggingface response: %w", err)
	}
	return single, nil
}
