// Package api implements the HTTP client for the training platform.
//
// Every endpoint returns a JSON envelope {code, data, msg}; the client maps
// envelope codes onto the closed error partition in errors.go and retries
// only transport-level failures.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"qgxf-trainer/internal/logger"
	"qgxf-trainer/models"
)

// Defaults applied by New when the corresponding option is zero.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Platform envelope codes.
const (
	codeSuccess          = 99999
	codePassportRejected = 10002
	codeUnauthorized     = 10003
)

// Options configures a Client. Zero Timeout and MaxRetries fall back to the
// defaults above; RetryDelay is used as given, so zero means no pause
// between attempts.
type Options struct {
	BaseURL string

	// Timeout is the fixed per-call timeout. Minimum 1s.
	Timeout time.Duration

	// MaxRetries is the total attempt budget for transient failures.
	// Minimum 1.
	MaxRetries int

	// RetryDelay is the fixed sleep between attempts. Negative means zero.
	RetryDelay time.Duration
}

// Client is a session against one platform endpoint. The token is written
// once by Login (or adopted by GetUserInfo) before any concurrent use and is
// read-only afterwards, so concurrent calls need no extra locking.
type Client struct {
	http *resty.Client

	maxRetries int
	retryDelay time.Duration
	token      string

	log *logger.Logger
}

// New constructs a Client. The User-Agent is picked deterministically per
// machine so a reinstalled session does not hop between browser identities.
func New(opts Options, log *logger.Logger) (*Client, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < time.Second {
		timeout = time.Second
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}

	retryDelay := opts.RetryDelay
	if retryDelay < 0 {
		retryDelay = 0
	}

	c := &Client{
		http:       resty.New().SetTimeout(timeout).SetHeader("User-Agent", GenerateUserAgent()),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        log,
	}

	if opts.BaseURL != "" {
		if err := c.SetBaseURL(opts.BaseURL); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// SetBaseURL normalises and validates the platform endpoint. Called before
// login, once the user has picked a platform.
func (c *Client) SetBaseURL(raw string) error {
	normalized, err := normalizeBaseURL(raw)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	c.http.SetBaseURL(normalized)
	return nil
}

// BaseURL returns the currently configured platform endpoint.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// SetToken stores the session token sent in the Token header of every
// subsequent request. It must happen-before any concurrent calls.
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// Token returns the session token, or an empty string before login.
func (c *Client) Token() string {
	return c.token
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// callOpts selects the request shape of one endpoint.
type callOpts struct {
	// get issues a GET instead of a POST.
	get bool
	// asJSON sends the payload as a JSON body instead of form fields.
	asJSON bool
	// noRetry restricts the call to a single attempt. Used for login, where
	// retrying a single-use captcha code is meaningless.
	noRetry bool
}

// call issues one logical request with the retry policy applied: transient
// failures (transport errors, timeouts, non-200 statuses) are retried after
// retryDelay up to the attempt budget; every structured envelope failure is
// surfaced immediately. Retries are silent except for the final exhaustion.
func (c *Client) call(ctx context.Context, path string, payload map[string]any, opts callOpts) (json.RawMessage, error) {
	attempts := c.maxRetries
	if opts.noRetry {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		data, err := c.send(ctx, path, payload, opts)
		if err == nil {
			return data, nil
		}

		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind != KindTransient {
			return nil, err
		}

		if opts.noRetry {
			return nil, err
		}

		lastErr = err
		if attempt >= attempts {
			break
		}

		c.log.Debug().Err(err).Str("path", path).Int("attempt", attempt).Msg("transient failure, retrying")
		time.Sleep(c.retryDelay)
	}

	return nil, &Error{
		Kind:    KindRetriesExhausted,
		Message: fmt.Sprintf("%s: gave up after %d attempts", path, attempts),
		err:     lastErr,
	}
}

// send performs a single attempt and classifies the outcome.
func (c *Client) send(ctx context.Context, path string, payload map[string]any, opts callOpts) (json.RawMessage, error) {
	req := c.http.R().SetContext(ctx)
	if c.token != "" {
		req.SetHeader("Token", c.token)
	}

	var (
		resp *resty.Response
		err  error
	)
	switch {
	case opts.get:
		resp, err = req.Get(path)
	case opts.asJSON:
		resp, err = req.SetHeader("Content-Type", "application/json").SetBody(payload).Post(path)
	default:
		resp, err = req.SetFormData(formValues(payload)).Post(path)
	}
	if err != nil {
		return nil, transientErr(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, transientStatus(resp.StatusCode())
	}

	var env models.Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		// A body without a structured code never made it through the
		// transport intact; treat it like any other transport failure.
		return nil, transientErr(fmt.Errorf("decode envelope: %w", err))
	}

	switch env.Code {
	case codeSuccess:
		return env.Data, nil
	case codeUnauthorized:
		return nil, &Error{Kind: KindUnauthorized, Code: env.Code, Message: orDefault(env.Msg, "unauthorized request")}
	case codePassportRejected:
		return nil, &Error{Kind: KindPermissionDenied, Code: env.Code, Message: orDefault(env.Msg, "unacceptable passport")}
	default:
		return nil, &Error{Kind: KindInvalidRequest, Code: env.Code, Message: env.Msg}
	}
}

func formValues(payload map[string]any) map[string]string {
	values := make(map[string]string, len(payload))
	for k, v := range payload {
		values[k] = fmt.Sprint(v)
	}
	return values
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
