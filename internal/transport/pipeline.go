// Package transport wraps one logical request to the signing service in a
// per-attempt timeout and a bounded retry loop. Every attempt outcome is
// classified before the retry decision: authentication and client errors
// propagate immediately, transport failures and 5xx responses are retried
// with exponential backoff.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/fne-client/internal/auth"
	"github.com/rezonia/fne-client/internal/model"
)

const (
	// DefaultTimeout bounds a single attempt
	DefaultTimeout = 30 * time.Second
	// DefaultAttempts is the total attempt budget, first try included
	DefaultAttempts = 3
	// ClientIdentifier is sent as the User-Agent on every request
	ClientIdentifier = "fne-client-go/1.0.0"
)

// SleepFunc suspends between retryable attempts. It returns early with the
// context error when ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pipeline executes requests against one base URL with the configured
// timeout, attempt budget and bearer credential source.
type Pipeline struct {
	baseURL  string
	tokens   *auth.TokenManager
	client   *http.Client
	timeout  time.Duration
	attempts int
	sleep    SleepFunc
	log      zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithTimeout sets the per-attempt timeout
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithAttempts sets the total attempt budget
func WithAttempts(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.attempts = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.client = c
		}
	}
}

// WithLogger attaches a structured logger; the default discards everything
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithSleep replaces the backoff sleeper. Tests use this to observe waits
// without real delays.
func WithSleep(sleep SleepFunc) Option {
	return func(p *Pipeline) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// New creates a pipeline for baseURL. The token manager is shared with the
// owning client for its whole lifetime.
func New(baseURL string, tokens *auth.TokenManager, opts ...Option) *Pipeline {
	p := &Pipeline{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokens:   tokens,
		client:   &http.Client{},
		timeout:  DefaultTimeout,
		attempts: DefaultAttempts,
		sleep:    sleepWithContext,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// attemptState is the explicit retry state machine: each classified attempt
// either succeeds, fails terminally, or feeds the next attempt.
type attemptState int

const (
	stateSuccess attemptState = iota
	stateRetryable
	stateTerminal
)

type outcome struct {
	state attemptState
	resp  *Response
	err   model.APIError
}

// Execute performs one logical request. The payload, when non-nil, is
// serialized to JSON once and reused across attempts.
func (p *Pipeline) Execute(ctx context.Context, method, path string, payload interface{}) (*Response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, model.NewTransportError(model.TransportGeneric, "failed to encode request body", err)
		}
	}

	var last model.APIError
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(attempt - 1)
			p.log.Debug().Int("attempt", attempt).Dur("backoff", delay).Msg("retrying request")
			if err := p.sleep(ctx, delay); err != nil {
				return nil, model.NewTransportError(model.TransportGeneric, "request cancelled during backoff", err)
			}
		}

		resp, err := p.attempt(ctx, method, path, body)
		o := classify(resp, err)

		switch o.state {
		case stateSuccess:
			p.log.Debug().Int("attempt", attempt).Int("status", o.resp.StatusCode).Msg("request succeeded")
			return o.resp, nil
		case stateTerminal:
			p.log.Debug().Int("attempt", attempt).Str("kind", string(o.err.Kind())).Msg("request failed terminally")
			return nil, o.err
		case stateRetryable:
			p.log.Debug().Int("attempt", attempt).Err(o.err).Msg("request failed, eligible for retry")
			last = o.err
		}
	}

	if last == nil {
		last = model.NewTransportError(model.TransportGeneric, "request failed without a classified cause", nil)
	}
	return nil, last
}

// attempt performs one HTTP exchange under the per-attempt timeout
func (p *Pipeline) attempt(ctx context.Context, method, path string, body []byte) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", ClientIdentifier)
	if token, err := p.tokens.Token(); err == nil {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return NewResponse(resp.StatusCode, resp.Header, string(raw)), nil
}

// classify maps a raw attempt result onto the state machine
func classify(resp *Response, err error) outcome {
	if err != nil {
		sub := classifyTransport(err)
		return outcome{
			state: stateRetryable,
			err:   model.NewTransportError(sub, "request attempt failed", err),
		}
	}

	switch {
	case resp.IsSuccess():
		return outcome{state: stateSuccess, resp: resp}
	case resp.StatusCode == http.StatusUnauthorized:
		return outcome{
			state: stateTerminal,
			err:   model.NewAuthError(model.AuthUnauthorized, "signing service rejected the credential"),
		}
	case resp.IsClientError():
		return outcome{
			state: stateTerminal,
			err:   model.NewRemoteError(resp.StatusCode, resp.JSON(), "signing service rejected the request"),
		}
	case resp.IsServerError():
		return outcome{
			state: stateRetryable,
			err:   model.NewRemoteError(resp.StatusCode, resp.JSON(), "signing service failed"),
		}
	default:
		return outcome{
			state: stateTerminal,
			err:   model.NewRemoteError(resp.StatusCode, resp.JSON(), "unexpected response status"),
		}
	}
}

// classifyTransport narrows a transport-level error to its sub-kind
func classifyTransport(err error) model.TransportKind {
	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return model.TransportTimeout
	case isTimeout(err):
		return model.TransportTimeout
	case errors.As(err, &dnsErr):
		return model.TransportDNS
	case errors.Is(err, syscall.ECONNREFUSED):
		return model.TransportConnRefused
	case errors.Is(err, syscall.ECONNRESET):
		return model.TransportConnReset
	case errors.As(err, &certErr), errors.As(err, &unknownAuthority), errors.As(err, &hostnameErr):
		return model.TransportTLS
	case strings.Contains(err.Error(), "tls:"):
		return model.TransportTLS
	default:
		return model.TransportGeneric
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// backoffDelay returns 2^(failedAttempt-1) seconds: 1s, 2s, 4s, ...
func backoffDelay(failedAttempt int) time.Duration {
	return time.Duration(1<<(failedAttempt-1)) * time.Second
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
