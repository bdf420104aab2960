package eos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("Unexpected path '%s'", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("Expected API key in query, got '%s'", r.URL.Query().Get("key"))
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Tools) != 1 {
			t.Errorf("Expected search tool enabled, got %d tools", len(req.Tools))
		}

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"part one "},{"text":"part two"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-model", "test-key")
	client.baseURL = server.URL

	text, err := client.Generate(context.Background(), "find deprecations")
	if err != nil {
		t.Fatal(err)
	}

	if text != "part one part two" {
		t.Errorf("Expected concatenated parts, got %q", text)
	}
}

func TestClientGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-model", "test-key")
	client.baseURL = server.URL

	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}

func TestClientGenerateNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-model", "test-key")
	client.baseURL = server.URL

	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for empty candidate list")
	}
}
