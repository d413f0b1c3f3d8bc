package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeResults(t *testing.T) {
	tests := []struct {
		name string
		raw  []map[string]interface{}
		want []SearchResult
	}{
		{
			name: "canonical keys",
			raw: []map[string]interface{}{
				{"title": "Kubernetes Docs", "link": "https://kubernetes.io", "snippet": "Production-grade orchestration"},
			},
			want: []SearchResult{
				{Title: "Kubernetes Docs", Link: "https://kubernetes.io", Snippet: "Production-grade orchestration"},
			},
		},
		{
			name: "alternate keys",
			raw: []map[string]interface{}{
				{"name": "Terraform", "url": "https://terraform.io", "snippet_text": "Infrastructure as code"},
			},
			want: []SearchResult{
				{Title: "Terraform", Link: "https://terraform.io", Snippet: "Infrastructure as code"},
			},
		},
		{
			name: "canonical wins over alternate",
			raw: []map[string]interface{}{
				{"title": "Primary", "name": "Secondary", "link": "https://a", "url": "https://b"},
			},
			want: []SearchResult{
				{Title: "Primary", Link: "https://a", Snippet: ""},
			},
		},
		{
			name: "missing and non-string fields become empty",
			raw: []map[string]interface{}{
				{"title": 42, "position": 1},
			},
			want: []SearchResult{
				{Title: "", Link: "", Snippet: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeResults(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("result[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSerpAPIToolSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Errorf("engine = %q, want google", got)
		}
		if got := r.URL.Query().Get("q"); got != "pod crashloop" {
			t.Errorf("q = %q, want %q", got, "pod crashloop")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"organic_results": [
				{"title": "CrashLoopBackOff", "link": "https://k8s.io/debug", "snippet": "Pod restarts repeatedly"},
				{"name": "SO answer", "url": "https://stackoverflow.com/q/1", "snippet_text": "Check the logs"},
				{"title": "Third"},
				{"title": "Fourth"},
				{"title": "Fifth"},
				{"title": "Sixth"}
			]
		}`))
	}))
	defer server.Close()

	tool := NewSerpAPITool("test-key")
	tool.BaseURL = server.URL

	results, err := tool.Search(context.Background(), "pod crashloop", 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5 (capped)", len(results))
	}
	if results[0].Title != "CrashLoopBackOff" || results[0].Link != "https://k8s.io/debug" {
		t.Errorf("first result not normalized: %+v", results[0])
	}
	if results[1].Title != "SO answer" || results[1].Link != "https://stackoverflow.com/q/1" || results[1].Snippet != "Check the logs" {
		t.Errorf("alternate keys not normalized: %+v", results[1])
	}
}

func TestSerpAPIToolSearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid API key"}`))
	}))
	defer server.Close()

	tool := NewSerpAPITool("bad-key")
	tool.BaseURL = server.URL

	if _, err := tool.Search(context.Background(), "anything", 5); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if got := reg.Get("google"); got != nil {
		t.Fatalf("empty registry returned tool: %v", got)
	}

	tool := NewSerpAPITool("key")
	reg.Register(tool)

	if got := reg.Get("google"); got != tool {
		t.Errorf("Get(google) = %v, want registered tool", got)
	}
	if got := reg.Get("bing"); got != nil {
		t.Errorf("Get(bing) = %v, want nil", got)
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "google" {
		t.Errorf("Names() = %v, want [google]", names)
	}
}
