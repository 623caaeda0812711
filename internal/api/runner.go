package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Runner executes code against custom stdin on the code-runner service.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

type httpRunner struct {
	baseURL string
	client  *http.Client
}

// NewRunner creates a Runner talking to opts.BaseURL.
func NewRunner(opts Options) Runner {
	return &httpRunner{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  opts.httpClient(),
	}
}

func (r *httpRunner) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.Language == "" {
		req.Language = "python"
	}
	buf, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	var out RunResult
	err = roundTrip(ctx, r.client, "code runner", http.MethodPost, r.baseURL+"/run",
		"application/json", bytes.NewReader(buf), runSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
