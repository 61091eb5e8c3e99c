package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const clientTimeout = 15 * time.Second

// apiError mirrors the server's error envelope.
type apiError struct {
	Error struct {
		Code          string `json:"code"`
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id"`
	} `json:"error"`
}

// Client is a thin REST client over the server's JSON API.
type Client struct {
	http *resty.Client
}

// newClient builds a client from the global flags.
func newClient() *Client {
	c := resty.New().
		SetBaseURL(serverURL).
		SetTimeout(clientTimeout).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		c.SetHeader("X-API-Key", apiKey)
	}
	if adminKey != "" {
		c.SetHeader("X-Admin-Key", adminKey)
	}
	return &Client{http: c}
}

func (c *Client) get(path string, query map[string]string, out interface{}) error {
	req := c.http.R()
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	return finish(resp, err, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	req := c.http.R()
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Post(path)
	return finish(resp, err, out)
}

func (c *Client) del(path string, out interface{}) error {
	resp, err := c.http.R().Delete(path)
	return finish(resp, err, out)
}

// finish maps transport errors and the error envelope to a single error
// and decodes successful bodies into out.
func finish(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		var e apiError
		if json.Unmarshal(resp.Body(), &e) == nil && e.Error.Code != "" {
			return fmt.Errorf("%s: %s", e.Error.Code, e.Error.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
