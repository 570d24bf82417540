package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// InferenceProvider calls an OpenAI-compatible /embeddings endpoint.
type InferenceProvider struct {
	baseURL      string
	serviceToken string
	model        string
	httpClient   *http.Client
}

func newInferenceProvider(cfg Config) (*InferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing EMBEDDING_ENDPOINT")
	}

	return &InferenceProvider{
		baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
		serviceToken: cfg.ServiceToken,
		model:        cfg.Model,
		httpClient:   &http.Client{Timeout: cfg.httpTimeout()},
	}, nil
}

// Embed generates embeddings for texts. Results are reordered by the
// response's index field so they line up with the input.
func (p *InferenceProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	reqBody := map[string]any{
		"model": p.model,
		"input": texts,
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	url := p.baseURL + "/embeddings"
	if err := p.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("inference: got %d embeddings for %d texts", len(parsed.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) || out[d.Index] != nil {
			return nil, fmt.Errorf("inference: bad embedding index %d", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}

// Close releases idle HTTP connections.
func (p *InferenceProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
