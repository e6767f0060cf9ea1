package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	sdkhttp "github.com/betbot/futuresbot/pkg/sdk/http"
)

// Credentials are fixed for the lifetime of a Client. Secret is only ever
// used as the HMAC key.
type Credentials struct {
	APIKey    string
	APISecret string
}

// Limiter is satisfied by *ratelimit.Manager.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Client signs and sends requests to the USDⓈ-M futures REST API. It holds no
// per-request state; each call builds its own parameter set and signature.
type Client struct {
	creds      Credentials
	http       *sdkhttp.Client
	recvWindow int64
	limiter    Limiter
	log        logrus.FieldLogger
	now        func() time.Time
}

type Option func(*clientOptions)

type clientOptions struct {
	baseURL string
	timeout time.Duration
	limiter Limiter
	log     logrus.FieldLogger
	http    *sdkhttp.Client
}

func WithBaseURL(u string) Option { return func(o *clientOptions) { o.baseURL = u } }

func WithTimeout(d time.Duration) Option { return func(o *clientOptions) { o.timeout = d } }

func WithLimiter(l Limiter) Option { return func(o *clientOptions) { o.limiter = l } }

func WithLogger(l logrus.FieldLogger) Option { return func(o *clientOptions) { o.log = l } }

// WithHTTPClient replaces the transport; base URL and timeout options are
// then ignored.
func WithHTTPClient(c *sdkhttp.Client) Option { return func(o *clientOptions) { o.http = c } }

func NewClient(creds Credentials, opts ...Option) *Client {
	o := clientOptions{baseURL: TestnetBaseURL, timeout: sdkhttp.DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	hc := o.http
	if hc == nil {
		hc = sdkhttp.NewClient(o.baseURL, o.timeout)
	}
	log := o.log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Client{
		creds:      creds,
		http:       hc,
		recvWindow: DefaultRecvWindow,
		limiter:    o.limiter,
		log:        log.WithField("component", "binance"),
		now:        time.Now,
	}
}

// Sign returns the lowercase hex HMAC-SHA256 of params.Encode() keyed by the
// API secret. Equal ordered params and secret always give equal output.
func (c *Client) Sign(params *Params) string {
	return Sign(c.creds.APISecret, params)
}

func Sign(secret string, params *Params) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(params.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}

// Execute appends timestamp, recvWindow and signature to a copy of params and
// sends one request. Errors are *TransportError, *ExchangeError or
// *DecodeError.
func (c *Client) Execute(ctx context.Context, method, endpoint string, params *Params) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, limitKey(method, endpoint)); err != nil {
			return nil, &TransportError{Cause: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	// Stamped after any limiter wait so the timestamp is taken at send time.
	signed := params.Clone()
	signed.Add(ParamTimestamp, strconv.FormatInt(c.now().UnixMilli(), 10))
	signed.Add(ParamRecvWindow, strconv.FormatInt(c.recvWindow, 10))
	signed.Add(ParamSignature, c.Sign(signed))

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
		"params":   signed.redacted(),
		"api_key":  maskKey(c.creds.APIKey),
	}).Debug("sending signed request")

	start := time.Now()
	resp, err := c.http.Do(ctx, method, endpoint, &sdkhttp.RequestOptions{
		Headers:  map[string]string{HeaderAPIKey: c.creds.APIKey},
		RawQuery: signed.Encode(),
	})
	if err != nil {
		c.log.WithError(err).Errorf("request error: %s %s", method, endpoint)
		return nil, &TransportError{Cause: err}
	}

	c.log.Debugf("%s %s -> %d (%s)", method, endpoint, resp.StatusCode(), time.Since(start))

	if !resp.IsSuccess() {
		apiErr := parseErrorBody(resp.StatusCode(), resp.Body())
		c.log.WithFields(logrus.Fields{
			"status": apiErr.Status,
			"code":   apiErr.Code,
		}).Errorf("http error: %s", apiErr.Message)
		return nil, apiErr
	}

	return decodeResponse(resp.Body())
}

// PostOrder places an order. params must carry the order fields only; the
// client adds the signing fields.
func (c *Client) PostOrder(ctx context.Context, params *Params) (Response, error) {
	if t, _ := params.Get(ParamType); t == OrderTypeLimit && !params.Has(ParamPrice) {
		return nil, fmt.Errorf("%w: price is required for LIMIT orders", ErrMissingParam)
	}
	return c.Execute(ctx, http.MethodPost, EndpointOrder, params)
}

// GetAccountInfo returns balances, positions and margin figures.
func (c *Client) GetAccountInfo(ctx context.Context) (Response, error) {
	return c.Execute(ctx, http.MethodGet, EndpointAccount, NewParams())
}

func limitKey(method, endpoint string) string {
	switch {
	case method == http.MethodPost && endpoint == EndpointOrder:
		return LimitKeyOrder
	case method == http.MethodGet && endpoint == EndpointAccount:
		return LimitKeyAccount
	default:
		return "fapi:general"
	}
}

// maskKey keeps the first and last four characters.
func maskKey(k string) string {
	if len(k) <= 8 {
		return "***"
	}
	return k[:4] + "***" + k[len(k)-4:]
}

// IsExchangeError reports whether err carries an exchange rejection and
// returns it.
func IsExchangeError(err error) (*ExchangeError, bool) {
	var ee *ExchangeError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
