package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fne-client/internal/auth"
	"github.com/rezonia/fne-client/internal/model"
	"github.com/rezonia/fne-client/internal/transport"
)

const testToken = "0123456789abcdef0123456789abcdef"

// sleepRecorder captures backoff waits instead of sleeping
type sleepRecorder struct {
	waits []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func newTokens() *auth.TokenManager {
	tokens := auth.NewTokenManager(0)
	tokens.SetToken(testToken)
	return tokens
}

// scriptedServer answers each request with the next status in the script
func scriptedServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statuses[idx])
		w.Write([]byte(`{"message":"scripted"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestPipeline_SuccessFirstAttempt(t *testing.T) {
	srv, hits := scriptedServer(t, http.StatusOK)
	rec := &sleepRecorder{}

	p := transport.New(srv.URL, newTokens(), transport.WithSleep(rec.sleep))
	resp, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", map[string]string{"a": "b"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), hits.Load())
	assert.Empty(t, rec.waits, "no backoff on first-attempt success")
}

func TestPipeline_RetriesThenSucceeds(t *testing.T) {
	srv, hits := scriptedServer(t, http.StatusInternalServerError, http.StatusInternalServerError, http.StatusOK)
	rec := &sleepRecorder{}

	p := transport.New(srv.URL, newTokens(), transport.WithSleep(rec.sleep), transport.WithAttempts(3))
	resp, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), hits.Load())
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, rec.waits)
}

func TestPipeline_Unauthorized_NeverRetried(t *testing.T) {
	srv, hits := scriptedServer(t, http.StatusUnauthorized)
	rec := &sleepRecorder{}

	p := transport.New(srv.URL, newTokens(), transport.WithSleep(rec.sleep))
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", nil)

	var aerr *model.AuthError
	require.True(t, errors.As(err, &aerr), "expected *model.AuthError, got %T", err)
	assert.Equal(t, model.AuthUnauthorized, aerr.Reason)
	assert.Equal(t, int64(1), hits.Load())
	assert.Empty(t, rec.waits)
}

func TestPipeline_ClientError_NeverRetried(t *testing.T) {
	srv, hits := scriptedServer(t, http.StatusBadRequest)
	rec := &sleepRecorder{}

	p := transport.New(srv.URL, newTokens(), transport.WithSleep(rec.sleep))
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", nil)

	var rerr *model.RemoteError
	require.True(t, errors.As(err, &rerr), "expected *model.RemoteError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, rerr.StatusCode)
	assert.True(t, rerr.IsClientError())
	require.NotNil(t, rerr.Body, "decoded JSON body attached")
	assert.Equal(t, int64(1), hits.Load())
	assert.Empty(t, rec.waits)
}

func TestPipeline_ServerError_ExhaustsAttempts(t *testing.T) {
	srv, hits := scriptedServer(t, http.StatusInternalServerError)
	rec := &sleepRecorder{}

	p := transport.New(srv.URL, newTokens(), transport.WithSleep(rec.sleep), transport.WithAttempts(3))
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", nil)

	var rerr *model.RemoteError
	require.True(t, errors.As(err, &rerr), "expected *model.RemoteError, got %T", err)
	assert.True(t, rerr.IsServerError())
	assert.Equal(t, int64(3), hits.Load())
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, rec.waits)
}

func TestPipeline_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	rec := &sleepRecorder{}

	p := transport.New(url, newTokens(), transport.WithSleep(rec.sleep), transport.WithAttempts(2))
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", nil)

	var terr *model.TransportError
	require.True(t, errors.As(err, &terr), "expected *model.TransportError, got %T", err)
	assert.Equal(t, model.TransportConnRefused, terr.Sub)
	assert.Len(t, rec.waits, 1, "transport failures are retried")
}

func TestPipeline_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	rec := &sleepRecorder{}

	p := transport.New(srv.URL, newTokens(),
		transport.WithSleep(rec.sleep),
		transport.WithAttempts(1),
		transport.WithTimeout(20*time.Millisecond))
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", nil)

	var terr *model.TransportError
	require.True(t, errors.As(err, &terr), "expected *model.TransportError, got %T", err)
	assert.Equal(t, model.TransportTimeout, terr.Sub)
}

func TestPipeline_RequestHeaders(t *testing.T) {
	var gotAuth, gotContentType, gotAccept, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	p := transport.New(srv.URL, newTokens())
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", map[string]string{})

	require.NoError(t, err)
	assert.Equal(t, "Bearer "+testToken, gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, transport.ClientIdentifier, gotAgent)
}

func TestPipeline_NoTokenOmitsAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	p := transport.New(srv.URL, auth.NewTokenManager(0))
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", nil)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestPipeline_SendsPayload(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	p := transport.New(srv.URL, newTokens())
	_, err := p.Execute(context.Background(), http.MethodPost, "/external/invoices/sign", map[string]string{"invoiceType": "sale"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"invoiceType":"sale"}`, string(gotBody))
}
