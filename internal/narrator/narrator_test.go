package narrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

func sampleRequest() Request {
	return Request{
		ProductName: "Recycled Denim Jeans",
		Category:    "mens-fashion",
		EcoScore:    75,
		Label:       eco.LabelHigh,
		Evidence:    eco.Evidence{Positive: []string{"recycled"}, Negative: []string{}},
		Explanation: "This product is likely sustainable because it mentions: recycled.",
	}
}

func TestRewrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "m" || len(req.Messages) != 2 {
			t.Errorf("unexpected request %+v", req)
		}
		if !strings.Contains(req.Messages[1].Content, "Positive indicators: recycled") {
			t.Errorf("prompt missing evidence: %q", req.Messages[1].Content)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Made from recycled denim.  "}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "k", "m", time.Second)
	got, err := c.Rewrite(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if got != "Made from recycled denim." {
		t.Fatalf("Rewrite() = %q", got)
	}
}

func TestRewrite_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{"garbage", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
		{"empty", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(srv.URL, "", "m", 50*time.Millisecond)
			_, err := c.Rewrite(context.Background(), sampleRequest())
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperr.Is(err, apperr.ExternalService) {
				t.Fatalf("expected ExternalService, got %v", err)
			}
		})
	}
}
