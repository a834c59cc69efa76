package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/PhumPatananiti/schooldesk/internal/gateway"
)

// Credentials supplies the bearer token and absorbs its rejection.
// The session manager satisfies it.
type Credentials interface {
	Token() string
	Invalidate(ctx context.Context)
}

// Client is a typed view of the remote data API. Every call carries
// the session token; any unauthorized response tears the session down
// globally, no matter which feature issued the call.
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials
}

func New(baseURL string, timeout time.Duration, creds Credentials) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return err
		}
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &gateway.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.creds.Invalidate(ctx)
		return gateway.ErrCredentialInvalidated
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return &gateway.TransportError{Err: err}
	}

	if resp.StatusCode >= 400 {
		var env struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(buf.Bytes(), &env)
		return &gateway.RemoteError{Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return &gateway.RemoteError{Message: "malformed response"}
	}
	return nil
}
