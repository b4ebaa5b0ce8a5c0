package fnelib

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/rezonia/fne-client/internal/auth"
	"github.com/rezonia/fne-client/internal/model"
	"github.com/rezonia/fne-client/internal/transport"
	"github.com/rezonia/fne-client/internal/validate"
)

// Base URLs of the signing service
const (
	// TestBaseURL is the DGI sandbox environment
	TestBaseURL = "http://54.247.95.108/ws"
	// ProductionBaseURL is the live environment
	ProductionBaseURL = "https://external.fne.dgi.gouv.ci/ws"
)

// Config is the construction-time configuration of a Client. There is no
// ambient configuration source; everything is supplied here.
type Config struct {
	// BaseURL of the signing service (TestBaseURL or ProductionBaseURL)
	BaseURL string
	// Token is the bearer credential; it may also be set later via SetToken
	Token string
	// Timeout per request attempt; default 30s
	Timeout time.Duration
	// RetryAttempts is the total attempt budget; default 3
	RetryAttempts int
	// MinTokenLength enforced by ValidateToken; default 20
	MinTokenLength int
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	clock      clockwork.Clock
	sleep      transport.SleepFunc
	log        zerolog.Logger
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// WithClock injects the time source used by the response cache
func WithClock(clock clockwork.Clock) ClientOption {
	return func(cfg *clientConfig) {
		cfg.clock = clock
	}
}

// WithSleep replaces the retry backoff sleeper
func WithSleep(sleep transport.SleepFunc) ClientOption {
	return func(cfg *clientConfig) {
		cfg.sleep = sleep
	}
}

// WithLogger attaches a structured logger
func WithLogger(log zerolog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.log = log
	}
}

// Client validates, serializes and submits invoices to the signing service.
// One submission is a single sequential unit of work: validation, then one
// network exchange with its internal retry loop.
type Client struct {
	config   Config
	tokens   *auth.TokenManager
	cache    *auth.Cache
	pipeline *transport.Pipeline
	log      zerolog.Logger
}

// NewClient creates a client for the configured environment
func NewClient(config Config, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tokens := auth.NewTokenManager(config.MinTokenLength)
	if config.Token != "" {
		tokens.SetToken(config.Token)
	}

	pipelineOpts := []transport.Option{
		transport.WithLogger(cfg.log),
	}
	if config.Timeout > 0 {
		pipelineOpts = append(pipelineOpts, transport.WithTimeout(config.Timeout))
	}
	if config.RetryAttempts > 0 {
		pipelineOpts = append(pipelineOpts, transport.WithAttempts(config.RetryAttempts))
	}
	if cfg.httpClient != nil {
		pipelineOpts = append(pipelineOpts, transport.WithHTTPClient(cfg.httpClient))
	}
	if cfg.sleep != nil {
		pipelineOpts = append(pipelineOpts, transport.WithSleep(cfg.sleep))
	}

	return &Client{
		config:   config,
		tokens:   tokens,
		cache:    auth.NewCache(cfg.clock),
		pipeline: transport.New(config.BaseURL, tokens, pipelineOpts...),
		log:      cfg.log,
	}
}

// SetToken stores the bearer credential
func (c *Client) SetToken(token string) {
	c.tokens.SetToken(token)
}

// ClearToken removes the bearer credential
func (c *Client) ClearToken() {
	c.tokens.ClearToken()
}

// ValidateToken checks that a credential is present and long enough
func (c *Client) ValidateToken() error {
	return c.tokens.Validate()
}

// Cache exposes the client's TTL response cache
func (c *Client) Cache() *auth.Cache {
	return c.cache
}

// Validate runs the rule engine against the invoice without any network call
func (c *Client) Validate(inv *Invoice) error {
	return validate.Invoice(inv)
}

// Sign validates the invoice and submits it for signing. Validation failures
// are raised before any network attempt. On success the decoded response
// carries the transport status in StatusCode.
func (c *Client) Sign(ctx context.Context, inv *Invoice) (*SignResponse, error) {
	if err := validate.Invoice(inv); err != nil {
		return nil, err
	}
	if err := c.tokens.Validate(); err != nil {
		return nil, err
	}

	c.log.Debug().Str("template", string(inv.Template)).Int("items", len(inv.Items)).Msg("submitting invoice")

	resp, err := c.pipeline.Execute(ctx, http.MethodPost, "/external/invoices/sign", inv.Payload())
	if err != nil {
		return nil, err
	}

	return decodeSignResponse(resp)
}

// Refund submits a refund for a previously signed invoice
func (c *Client) Refund(ctx context.Context, invoiceID string, items ...model.RefundItemPayload) (*SignResponse, error) {
	errs := model.NewErrorSet()
	if invoiceID == "" {
		errs.Add("invoiceId", "invoice id is required for a refund")
	}
	if len(items) == 0 {
		errs.Add("items", "at least one refund item is required")
	}
	if errs.Len() > 0 {
		return nil, model.NewValidationError(errs)
	}
	if err := c.tokens.Validate(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/external/invoices/%s/refund", url.PathEscape(invoiceID))

	resp, err := c.pipeline.Execute(ctx, http.MethodPost, path, model.NewRefundPayload(items...))
	if err != nil {
		return nil, err
	}

	return decodeSignResponse(resp)
}

func decodeSignResponse(resp *transport.Response) (*SignResponse, error) {
	var out SignResponse
	if err := resp.Decode(&out); err != nil {
		return nil, model.NewRemoteError(resp.StatusCode, nil, "signing service returned a non-JSON success body")
	}
	out.StatusCode = resp.StatusCode
	return &out, nil
}
