package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pokkur/layr/core/registry"
)

// Client speaks the wire protocol to a remote registry server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	headers    map[string]string
}

// ClientConfig configures the remote client.
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Headers map[string]string
}

// NewClient creates a new remote client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		headers:    cfg.Headers,
	}
}

// Introspect asks the server to describe its registry.
func (c *Client) Introspect(ctx context.Context) (registry.Introspection, error) {
	var out struct {
		Result registry.Introspection `json:"result"`
	}
	if err := c.Query(ctx, IntrospectQuery(), &out); err != nil {
		return registry.Introspection{}, err
	}
	return out.Result, nil
}

// Query sends one wire query to the server and decodes the response
// body into result.
func (c *Client) Query(ctx context.Context, query, result any) error {
	wireReq, err := NewRequest(query)
	if err != nil {
		return err
	}
	data, err := json.Marshal(wireReq)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return remoteError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// remoteError reconstructs the server's error envelope, falling back
// to the raw body when the response is not an envelope.
func remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}
	return &RemoteError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}

// RemoteError represents an error returned by the remote server.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized returns true if the error is a 401.
func IsUnauthorized(err error) bool {
	if re, ok := err.(*RemoteError); ok {
		return re.StatusCode == http.StatusUnauthorized
	}
	return false
}
