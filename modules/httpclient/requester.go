package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/part"
)

// Response is the outcome of one request.
type Response struct {
	StatusCode int
	Body       []byte
}

// Requester issues requests against a base URL with a shared client.
type Requester struct {
	client  *http.Client
	baseURL string
	method  string
}

// Do sends a request to baseURL+path. An empty method uses the part's
// default method.
func (r *Requester) Do(ctx context.Context, method, path string) (*Response, error) {
	if method == "" {
		method = r.method
	}
	url := r.baseURL + path
	logger := ctxlog.FromContext(ctx)
	logger.Info("Making HTTP request", "method", method, "url", url)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// NewHTTPRequester imports exactly one HTTPClient. Settings: base_url
// (default "") and method (default "GET").
func NewHTTPRequester(_ context.Context, in part.Inputs) (any, error) {
	v, ok := in.One(Contract)
	if !ok {
		return nil, errors.New("http client dependency was not injected")
	}
	client, ok := v.(*http.Client)
	if !ok {
		return nil, fmt.Errorf("HTTPClient export is %T, not *http.Client", v)
	}
	settings := in.Settings()
	return &Requester{
		client:  client,
		baseURL: settings.String("base_url", ""),
		method:  settings.String("method", http.MethodGet),
	}, nil
}
