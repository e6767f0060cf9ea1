package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single round trip, connect and body read included.
const DefaultTimeout = 10 * time.Second

// Client is a thin resty wrapper that sends exactly one attempt per call.
// Query strings are passed through pre-encoded so the byte order of the
// parameters on the wire is the byte order the caller produced.
type Client struct {
	client *resty.Client
}

func NewClient(host string, timeout time.Duration) *Client {
	host = strings.TrimSuffix(host, "/")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// Retries stay off: a resent order is a second order.
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Client{client: client}
}

// BaseURL returns the host every endpoint is resolved against.
func (c *Client) BaseURL() string {
	return c.client.BaseURL
}

type RequestOptions struct {
	Headers map[string]string
	// RawQuery is appended verbatim after '?'. It must already be encoded.
	RawQuery string
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	r.SetHeader("Connection", "keep-alive")
	r.SetHeader("User-Agent", "futuresbot")
	return r
}

// Do issues the request. A nil error means the server answered, whatever the
// status; callers inspect resp.IsSuccess. A non-nil error means the request
// never completed (DNS, connect, TLS, timeout).
func (c *Client) Do(ctx context.Context, method, endpoint string, opt *RequestOptions) (*resty.Response, error) {
	rc := c.newRequest(ctx)
	target := endpoint
	if opt != nil {
		for k, v := range opt.Headers {
			rc.SetHeader(k, v)
		}
		if opt.RawQuery != "" {
			target = endpoint + "?" + opt.RawQuery
		}
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		return rc.Get(target)
	case http.MethodPost:
		return rc.Post(target)
	case http.MethodDelete:
		return rc.Delete(target)
	case http.MethodPut:
		return rc.Put(target)
	default:
		return nil, fmt.Errorf("unsupported method: %s", method)
	}
}
