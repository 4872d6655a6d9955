// Package testutil provides testing utilities for the coursegen client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// CompletionReply configures what the mock gateway answers.
type CompletionReply struct {
	StatusCode int
	// Content is wrapped into a chat-completions body when StatusCode is 200.
	Content string
	// Body overrides the response body verbatim when set.
	Body    string
	Headers map[string]string
}

// MockGateway is a configurable fake of the AI gateway's chat-completions
// endpoint.
type MockGateway struct {
	server *httptest.Server

	mu      sync.Mutex
	replies []CompletionReply

	// Tracking
	RequestCount int
	LastModel    string
	LastMessages []map[string]string
}

// NewMockGateway creates a mock gateway that serves the given replies in
// order, repeating the last one once the script runs out. With no replies it
// answers 200 with an empty JSON object as content.
func NewMockGateway(replies ...CompletionReply) *MockGateway {
	mock := &MockGateway{replies: replies}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		reply := CompletionReply{StatusCode: http.StatusOK, Content: "{}"}
		if len(mock.replies) > 0 {
			reply = mock.replies[0]
			if len(mock.replies) > 1 {
				mock.replies = mock.replies[1:]
			}
		}

		var req struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			mock.LastModel = req.Model
			mock.LastMessages = req.Messages
		}
		mock.mu.Unlock()

		for k, v := range reply.Headers {
			w.Header().Set(k, v)
		}

		if reply.Body != "" {
			w.WriteHeader(reply.StatusCode)
			w.Write([]byte(reply.Body))
			return
		}

		if reply.StatusCode != http.StatusOK {
			w.WriteHeader(reply.StatusCode)
			w.Write([]byte(`{"error":"mock rejection"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		body := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply.Content}},
			},
		}
		json.NewEncoder(w).Encode(body)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockGateway) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGateway) Close() {
	m.server.Close()
}

// Requests returns the number of requests served so far.
func (m *MockGateway) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RequestCount
}
