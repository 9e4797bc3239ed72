package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
)

type OllamaCompleter struct {
	client  *api.Client
	model   string
	timeout time.Duration
	mu      sync.Mutex
}

// NewOllamaCompleter accepts either a bare host:port or a full URL.
func NewOllamaCompleter(baseURL, model string, timeout time.Duration) (*OllamaCompleter, error) {
	u, err := ollamaURL(baseURL)
	if err != nil {
		return nil, err
	}

	return &OllamaCompleter{
		client:  api.NewClient(u, &http.Client{}),
		model:   model,
		timeout: timeout,
	}, nil
}

func ollamaURL(baseURL string) (*url.URL, error) {
	if !strings.Contains(baseURL, "://") {
		return &url.URL{Scheme: "http", Host: baseURL, Path: "/"}, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	return u, nil
}

func (o *OllamaCompleter) Complete(ctx context.Context, system, text string, jsonReply bool) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	req := &api.GenerateRequest{
		Model:  o.model,
		System: system,
		Prompt: text,
	}
	if jsonReply {
		req.Format = json.RawMessage(`"json"`)
	}

	timeout := o.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var responseFlow []string
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		responseFlow = append(responseFlow, resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	return strings.Join(responseFlow, ""), nil
}
