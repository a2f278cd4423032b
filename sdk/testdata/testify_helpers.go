package testdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite bundles a mock server with a bounded context.
type TestSuite struct {
	T          *testing.T
	Server     *MockServer
	BaseURL    string
	Context    context.Context
	CancelFunc context.CancelFunc
}

// NewTestSuite starts a mock server and registers its cleanup with t.
func NewTestSuite(t *testing.T) *TestSuite {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	server := NewMockServer()

	ts := &TestSuite{
		T:          t,
		Server:     server,
		BaseURL:    server.APIURL(),
		Context:    ctx,
		CancelFunc: cancel,
	}
	t.Cleanup(ts.Cleanup)
	return ts
}

// Cleanup cleans up test resources
func (ts *TestSuite) Cleanup() {
	if ts.CancelFunc != nil {
		ts.CancelFunc()
	}
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// AssertZohoHeaders checks the authentication headers every request carries.
func AssertZohoHeaders(t *testing.T, req RecordedRequest) {
	t.Helper()
	assert.Equal(t, "Zoho-authtoken "+AuthToken, req.Headers.Get("Authorization"))
	assert.Equal(t, OrganizationID, req.Headers.Get("X-com-zoho-subscriptions-organizationid"))
	assert.NotEmpty(t, req.Headers.Get("X-Request-ID"))
}

// RequireJSONBody decodes the recorded body.
func RequireJSONBody(t *testing.T, req RecordedRequest) map[string]interface{} {
	t.Helper()
	require.NotEmpty(t, req.Body, "request %s %s has no body", req.Method, req.Path)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	return body
}

// MockDoer answers requests from a script without a network. It can return
// responses no real server produces, such as a nil response with a nil
// error.
type MockDoer struct {
	sync.Mutex
	responses map[string]*MockResponse
	requests  []*http.Request
}

// MockResponse defines a scripted answer. With Nil set, Do returns (nil, nil);
// with NoBody, a response whose Body is nil.
type MockResponse struct {
	Status int
	Body   interface{}
	Error  error
	Nil    bool
	NoBody bool
}

// ErrNoMockResponse is returned for requests without a scripted answer.
var ErrNoMockResponse = errors.New("no mock response configured")

// NewMockDoer creates an empty MockDoer.
func NewMockDoer() *MockDoer {
	return &MockDoer{responses: make(map[string]*MockResponse)}
}

// SetResponse scripts the answer to "METHOD path", path relative to APIPrefix.
func (md *MockDoer) SetResponse(method, path string, resp *MockResponse) {
	md.Lock()
	defer md.Unlock()
	md.responses[method+" "+path] = resp
}

// Do implements the SDK's HTTPDoer.
func (md *MockDoer) Do(req *http.Request) (*http.Response, error) {
	md.Lock()
	defer md.Unlock()

	md.requests = append(md.requests, req.Clone(context.Background()))

	key := req.Method + " " + trimAPIPrefix(req.URL.Path)
	resp := md.responses[key]
	if resp == nil {
		return nil, ErrNoMockResponse
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Nil {
		return nil, nil
	}
	if resp.NoBody {
		return &http.Response{StatusCode: resp.Status, Request: req}, nil
	}

	body, err := json.Marshal(resp.Body)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: resp.Status,
		Status:     http.StatusText(resp.Status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}, nil
}

// GetRequests returns all recorded requests
func (md *MockDoer) GetRequests() []*http.Request {
	md.Lock()
	defer md.Unlock()
	result := make([]*http.Request, len(md.requests))
	copy(result, md.requests)
	return result
}

func trimAPIPrefix(path string) string {
	if i := strings.Index(path, APIPrefix); i >= 0 {
		return path[i+len(APIPrefix):]
	}
	return path
}
