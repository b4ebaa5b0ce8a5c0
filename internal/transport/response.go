package transport

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
)

// Response is an immutable wrapper around one HTTP exchange: status code,
// headers and raw body text. The JSON view of the body is decoded once and
// memoized for the lifetime of the envelope.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       string

	jsonOnce sync.Once
	jsonVal  interface{}
}

// NewResponse builds an envelope from the raw transport values
func NewResponse(statusCode int, headers http.Header, body string) *Response {
	if headers == nil {
		headers = http.Header{}
	}
	return &Response{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
	}
}

// JSON returns the decoded body, or nil when the body is not valid JSON.
// Decoding happens at most once; repeated calls return the memoized value.
func (r *Response) JSON() interface{} {
	r.jsonOnce.Do(func() {
		var v interface{}
		if err := json.Unmarshal([]byte(r.Body), &v); err == nil {
			r.jsonVal = v
		}
	})
	return r.jsonVal
}

// Decode unmarshals the body into v
func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal([]byte(r.Body), v)
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect reports a 3xx status
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError reports a 4xx status
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError reports a 5xx status
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// IsJSON sniffs the Content-Type header for a JSON media type
func (r *Response) IsJSON() bool {
	ct := strings.ToLower(r.Headers.Get("Content-Type"))
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}
