package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// Request is one call received by the API mock.
type Request struct {
	Headers map[string]string
	Queries map[string]string
	Body    map[string]any
}

type cannedResponse struct {
	status int
	body   any
}

// ApiMock is an HTTP server standing in for an external API. Responses are keyed
// by method and path; a "*" path segment matches any value.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	responses map[string]cannedResponse
	received  map[string][]Request
}

// NewApiServer creates an API mock. Call Start before use.
func NewApiServer() *ApiMock {
	return &ApiMock{
		responses: map[string]cannedResponse{},
		received:  map[string][]Request{},
	}
}

// Start begins serving on a random local port.
func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

// Close stops the server.
func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

// GetUrl returns the server base URL.
func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

// SetResponse registers the JSON response for method and path.
func (a *ApiMock) SetResponse(method, path string, status int, body any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

// Requests returns the calls received for method and path, oldest first.
func (a *ApiMock) Requests(method, path string) []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.received[method+" "+path]...)
}

// Reset forgets every response and recorded request.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = map[string]cannedResponse{}
	a.received = map[string][]Request{}
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	req := Request{
		Headers: map[string]string{},
		Queries: map[string]string{},
		Body:    map[string]any{},
	}
	for key, value := range r.Header {
		req.Headers[key] = value[0]
	}
	for key, value := range r.URL.Query() {
		req.Queries[key] = value[0]
	}
	raw, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(raw, &req.Body); err != nil {
		// form-encoded bodies, such as OAuth token requests
		if form, err := url.ParseQuery(string(raw)); err == nil {
			for key, value := range form {
				req.Body[key] = value[0]
			}
		}
	}

	a.mu.Lock()
	key := r.Method + " " + r.URL.Path
	a.received[key] = append(a.received[key], req)
	resp, ok := a.lookup(r.Method, r.URL.Path)
	a.mu.Unlock()

	if !ok {
		resp = cannedResponse{status: http.StatusNotFound, body: map[string]any{"error": "no mock response for " + key}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

// lookup must be called with a.mu held.
func (a *ApiMock) lookup(method, path string) (cannedResponse, bool) {
	if resp, ok := a.responses[method+" "+path]; ok {
		return resp, true
	}
	for key, resp := range a.responses {
		m, pattern, _ := strings.Cut(key, " ")
		if m == method && matchPath(pattern, path) {
			return resp, true
		}
	}
	return cannedResponse{}, false
}

func matchPath(pattern, path string) bool {
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}
