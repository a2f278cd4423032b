package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerAuthorization  = "Authorization"
	headerOrganizationID = "X-com-zoho-subscriptions-organizationid"
	headerRequestID      = "X-Request-ID"

	tracerName = "github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

// httpTransport turns HTTP exchanges into response envelopes or typed errors.
// It never panics and never retries: one request either yields the decoded
// envelope or an *Error describing why it did not.
type httpTransport struct {
	// doer sends the requests
	doer HTTPDoer
	// config holds the SDK configuration
	config *Config
	// baseURL is the parsed API root, always ending in "/"
	baseURL *url.URL
	// observer for monitoring operations
	observer Observer
	logger   logrus.FieldLogger
}

// envelope keys of every Zoho response
const (
	envelopeCode    = "code"
	envelopeMessage = "message"
)

func newHTTPTransport(config *Config) (*httpTransport, error) {
	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("base URL must have a scheme and host")
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	return &httpTransport{
		doer:     config.HTTPClient,
		config:   config,
		baseURL:  baseURL,
		observer: config.Observer,
		logger:   config.Logger,
	}, nil
}

// get performs a GET request
func (t *httpTransport) get(ctx context.Context, path string, query url.Values) (*Record, error) {
	return t.do(ctx, http.MethodGet, withQuery(path, query), nil)
}

// post performs a POST request; body may be nil
func (t *httpTransport) post(ctx context.Context, path string, body any) (*Record, error) {
	return t.do(ctx, http.MethodPost, path, body)
}

// do executes one request and returns the decoded success envelope.
func (t *httpTransport) do(ctx context.Context, method, path string, body any) (*Record, error) {
	t.observer.OnRequestStart(method, path)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "zoho."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("zoho.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	requestID := uuid.NewString()
	env, status, err := t.perform(ctx, method, path, body, requestID)
	duration := time.Since(start)

	entry := t.logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"request_id":  requestID,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		entry.WithError(err).Warn("Zoho request failed")
	} else {
		span.SetStatus(codes.Ok, "")
		entry.Debug("Zoho request completed")
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	t.observer.OnRequestEnd(method, path, duration, err)
	return env, err
}

// perform sends a single request. It returns the HTTP status (0 when no
// response was received) alongside the envelope or error.
func (t *httpTransport) perform(ctx context.Context, method, path string, body any, requestID string) (*Record, int, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, NewError(ErrorTypeValidation, "failed to marshal request body", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, 0, NewError(ErrorTypeValidation, "invalid request path", err)
	}
	fullURL := t.baseURL.ResolveReference(ref)
	errCtx := &ErrorContext{Method: method, URL: fullURL.String()}

	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), bodyReader)
	if err != nil {
		return nil, 0, NewError(ErrorTypeValidation, "failed to create request", err).WithContext(errCtx)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.config.UserAgent != "" {
		req.Header.Set("User-Agent", t.config.UserAgent)
	}
	for key, value := range t.config.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set(headerAuthorization, "Zoho-authtoken "+t.config.AuthToken)
	req.Header.Set(headerOrganizationID, t.config.OrganizationID)
	req.Header.Set(headerRequestID, requestID)

	resp, err := t.doer.Do(req)
	if err != nil {
		sdkErr := NewError(ErrorTypeTransport, err.Error(), err).WithContext(errCtx)
		sdkErr.RequestID = requestID
		return nil, 0, sdkErr
	}
	if resp == nil {
		sdkErr := NewError(ErrorTypeNullResponse, ErrNullResponse.Error(), ErrNullResponse).WithContext(errCtx)
		sdkErr.RequestID = requestID
		return nil, 0, sdkErr
	}

	env, err := processResponse(resp)
	if err != nil {
		if sdkErr, ok := err.(*Error); ok {
			sdkErr.RequestID = requestID
			sdkErr.WithContext(errCtx)
		}
		return nil, resp.StatusCode, err
	}
	return env, resp.StatusCode, nil
}

// processResponse checks the status, decodes the envelope and checks the
// application code, in that order.
func processResponse(resp *http.Response) (*Record, error) {
	if resp.Body == nil {
		return nil, NewError(ErrorTypeNullResponse, ErrNullResponse.Error(), ErrNullResponse)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, NewError(ErrorTypeTransport, "failed to read response body", err)
	}

	if resp.StatusCode > http.StatusCreated {
		sdkErr := NewError(ErrorTypeHTTPStatus, reasonPhrase(resp), nil)
		sdkErr.StatusCode = resp.StatusCode
		if env, decodeErr := DecodeRecord(respBody); decodeErr == nil {
			sdkErr.Code = int(env.Int(envelopeCode))
			if msg := env.String(envelopeMessage); msg != "" {
				sdkErr.Message += ": " + msg
			}
		}
		return nil, sdkErr
	}

	env, err := DecodeRecord(respBody)
	if err != nil {
		sdkErr := NewError(ErrorTypeDecode, "response body is not a JSON object", err)
		sdkErr.StatusCode = resp.StatusCode
		return nil, sdkErr
	}

	if code := env.Int(envelopeCode); code != 0 {
		sdkErr := NewError(ErrorTypeApplication, env.String(envelopeMessage), nil)
		sdkErr.StatusCode = resp.StatusCode
		sdkErr.Code = int(code)
		return nil, sdkErr
	}

	return env, nil
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	if reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); reason != "" && reason != resp.Status {
		return reason
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

// close releases idle connections of the default client
func (t *httpTransport) close() error {
	if c, ok := t.doer.(*http.Client); ok {
		c.CloseIdleConnections()
	}
	return nil
}

// buildPath builds a URL path with proper escaping for path parameters.
// It replaces placeholders like {0}, {1}, etc. with the provided arguments,
// ensuring all special characters are properly URL-encoded.
//
// Example:
//
//	path := buildPath("subscriptions/{0}/coupons/{1}", "9030000", "SAVE 10")
//	// Result: "subscriptions/9030000/coupons/SAVE%2010"
func buildPath(pattern string, args ...string) string {
	path := pattern
	for i, arg := range args {
		placeholder := fmt.Sprintf("{%d}", i)
		// QueryEscape also encodes '/', '?', '=' and '&'; '+' is only a
		// space inside query strings
		escaped := url.QueryEscape(arg)
		escaped = strings.ReplaceAll(escaped, "+", "%20")
		path = strings.Replace(path, placeholder, escaped, 1)
	}
	return path
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
