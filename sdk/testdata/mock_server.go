package testdata

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// APIPrefix is the path under which the mock server answers, mirroring
// https://subscriptions.zoho.com/api/v1/.
const APIPrefix = "/api/v1/"

// MockServer is a Zoho Subscriptions look-alike on httptest.
//
// Handlers are registered by "METHOD path" where path is relative to
// APIPrefix, e.g. "GET plans/basic-monthly". A pattern ending in "/" matches
// every path under it.
type MockServer struct {
	*httptest.Server
	mu           sync.RWMutex
	handlers     map[string]HandlerFunc
	requestCount atomic.Int32
	requests     []RecordedRequest
}

// HandlerFunc returns the status and the JSON body to send. A nil body sends
// nothing; a zero status means the handler wrote the response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) (int, interface{})

// RecordedRequest stores information about a received request
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Body    []byte
	Time    time.Time
}

// JSON decodes the recorded body, or returns nil when it is empty.
func (r RecordedRequest) JSON() map[string]interface{} {
	if len(r.Body) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil
	}
	return out
}

// NewMockServer starts a server answering the fixture catalogue (see
// fixtures.go) for plans, addons and subscriptions.
func NewMockServer() *MockServer {
	ms := &MockServer{
		handlers: make(map[string]HandlerFunc),
		requests: make([]RecordedRequest, 0),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", ms.handleRequest)

	ms.Server = httptest.NewServer(mux)
	ms.setupDefaultHandlers()

	return ms
}

// APIURL returns the base URL clients should be configured with.
func (ms *MockServer) APIURL() string {
	return ms.URL + APIPrefix
}

func (ms *MockServer) setupDefaultHandlers() {
	ms.RegisterHandler("GET plans", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return http.StatusOK, Success("plans", Plans())
	})

	ms.RegisterHandler("GET plans/", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		code := LastSegment(r)
		for _, plan := range Plans() {
			if plan["plan_code"] == code {
				return http.StatusOK, Success("plan", plan)
			}
		}
		return http.StatusNotFound, Failure(1004, "The plan does not exist.")
	})

	ms.RegisterHandler("GET addons", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return http.StatusOK, Success("addons", Addons())
	})

	ms.RegisterHandler("GET addons/", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		code := LastSegment(r)
		for _, addon := range Addons() {
			if addon["addon_code"] == code {
				return http.StatusOK, Success("addon", addon)
			}
		}
		return http.StatusNotFound, Failure(1004, "The addon does not exist.")
	})

	ms.RegisterHandler("GET subscriptions", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		customerID := r.URL.Query().Get("customer_id")
		subs := make([]map[string]interface{}, 0)
		for _, sub := range Subscriptions() {
			if customerID == "" || sub["customer_id"] == customerID {
				subs = append(subs, sub)
			}
		}
		return http.StatusOK, Success("subscriptions", subs)
	})

	ms.RegisterHandler("GET subscriptions/", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		id := LastSegment(r)
		for _, sub := range Subscriptions() {
			if sub["subscription_id"] == id {
				return http.StatusOK, Success("subscription", sub)
			}
		}
		return http.StatusNotFound, Failure(1002, "The subscription does not exist.")
	})

	ms.RegisterHandler("POST subscriptions", EchoHandler("subscription", "subscription_id", NewSubscriptionID))
	ms.RegisterHandler("PUT subscriptions/", EchoHandler("subscription", "subscription_id", LastSegment))
}

// RegisterHandler registers a custom handler for a method and path pattern.
func (ms *MockServer) RegisterHandler(pattern string, handler HandlerFunc) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers[pattern] = handler
}

func (ms *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	body := make([]byte, 0)
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	path := strings.TrimPrefix(r.URL.Path, APIPrefix)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method:  r.Method,
		Path:    path,
		Query:   r.URL.RawQuery,
		Headers: r.Header.Clone(),
		Body:    body,
		Time:    time.Now(),
	})
	ms.mu.Unlock()

	ms.requestCount.Add(1)

	pattern := r.Method + " " + path
	ms.mu.RLock()
	handler, exact := ms.handlers[pattern]
	if !exact {
		// longest matching prefix wins
		best := ""
		for p, h := range ms.handlers {
			if strings.HasSuffix(p, "/") && strings.HasPrefix(pattern, p) && len(p) > len(best) {
				best, handler = p, h
			}
		}
	}
	ms.mu.RUnlock()

	if handler == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(Failure(5, "Invalid URL Passed"))
		return
	}

	status, response := handler(w, r)
	if status == 0 {
		// handler wrote the response itself
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if response != nil {
		json.NewEncoder(w).Encode(response)
	}
}

// GetRequestCount returns the total number of requests received
func (ms *MockServer) GetRequestCount() int {
	return int(ms.requestCount.Load())
}

// GetRequests returns all recorded requests
func (ms *MockServer) GetRequests() []RecordedRequest {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]RecordedRequest, len(ms.requests))
	copy(result, ms.requests)
	return result
}

// LastRequest returns the most recent request, or the zero value.
func (ms *MockServer) LastRequest() RecordedRequest {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if len(ms.requests) == 0 {
		return RecordedRequest{}
	}
	return ms.requests[len(ms.requests)-1]
}

// Reset clears all recorded requests
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requestCount.Store(0)
	ms.requests = ms.requests[:0]
}

// WithResponse answers pattern with a fixed status and body.
func (ms *MockServer) WithResponse(pattern string, status int, body interface{}) {
	ms.RegisterHandler(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return status, body
	})
}

// WithApplicationError answers pattern with HTTP 200 and a non-zero code.
func (ms *MockServer) WithApplicationError(pattern string, code int, message string) {
	ms.WithResponse(pattern, http.StatusOK, Failure(code, message))
}

// WithRawResponse answers pattern with a raw, possibly invalid, body.
func (ms *MockServer) WithRawResponse(pattern string, status int, body string) {
	ms.RegisterHandler(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
		return 0, nil
	})
}

// Close shuts down the mock server
func (ms *MockServer) Close() {
	if ms.Server != nil {
		ms.Server.Close()
	}
}

// EchoHandler returns the posted object under module with idField set by
// id, unless the body already carries one or id is nil.
func EchoHandler(module, idField string, id func(r *http.Request) string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return http.StatusBadRequest, Failure(4, "Invalid value passed for JSONString")
		}
		if _, ok := body[idField]; !ok && id != nil {
			body[idField] = id(r)
		}
		return http.StatusCreated, Success(module, body)
	}
}

// Success wraps payload in a Zoho success envelope.
func Success(module string, payload interface{}) map[string]interface{} {
	return map[string]interface{}{
		"code":    0,
		"message": "success",
		module:    payload,
	}
}

// Failure builds a Zoho error envelope.
func Failure(code int, message string) map[string]interface{} {
	return map[string]interface{}{
		"code":    code,
		"message": message,
	}
}

var subscriptionSeq atomic.Int64

// NewSubscriptionID returns a fresh subscription id.
func NewSubscriptionID(*http.Request) string {
	return strconv.FormatInt(903000000000+subscriptionSeq.Add(1), 10)
}

// LastSegment returns the last path segment of r, usually an identifier.
func LastSegment(r *http.Request) string {
	path := strings.TrimSuffix(r.URL.Path, "/")
	return path[strings.LastIndex(path, "/")+1:]
}
