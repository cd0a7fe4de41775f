package insights

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGemini_Complete(t *testing.T) {
	var gotPath, gotBody, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Goog-Api-Key")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"1. Save more.\n"},{"text":"2. Spend less."}]}}]}`)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), "secret", "", WithGeminiBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}
	text, err := g.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "1. Save more.\n2. Spend less." {
		t.Errorf("Complete() = %q", text)
	}
	if !strings.HasSuffix(gotPath, "models/"+DefaultGeminiModel+":generateContent") {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("API key = %q", gotKey)
	}
	if !strings.Contains(gotBody, `"text":"hello"`) {
		t.Errorf("request body = %s", gotBody)
	}
}

func TestGemini_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400,"message":"bad"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), "secret", "m", WithGeminiBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewGemini() error = %v", err)
	}
	if _, err := g.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error")
	}
	if got := NewClient(g).Generate(context.Background(), nil); got != FallbackMessage {
		t.Errorf("Generate() = %q, want fallback", got)
	}
}

func TestOpenAI_Complete(t *testing.T) {
	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Keep a buffer.  "},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	o, err := NewOpenAI("sk-test", srv.URL+"/v1/", "llama3")
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	text, err := o.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "Keep a buffer." {
		t.Errorf("Complete() = %q", text)
	}
	if req.Model != "llama3" || len(req.Messages) != 1 || req.Messages[0].Content != "hello" || req.Messages[0].Role != "user" {
		t.Errorf("request = %+v", req)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	o, err := NewOpenAI("", srv.URL, "m")
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	if _, err := o.Complete(context.Background(), "hello"); err != ErrEmptyResponse {
		t.Fatalf("Complete() error = %v, want ErrEmptyResponse", err)
	}
}
