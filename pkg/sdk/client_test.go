package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Query != "caching" {
			t.Errorf("query = %q", req.Query)
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Results: []SearchHit{{Document: Document{ID: "d1"}, Score: 15, Tier: "conceptual"}},
			Total:   1,
		})
	}))
	defer ts.Close()

	c := New(ts.URL)
	resp, err := c.Search(context.Background(), SearchRequest{Query: "caching", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Document.ID != "d1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGet_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"not_found","message":"document missing"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "not_found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestDelete_NoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	if err := New(ts.URL).Delete(context.Background(), "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count":42}`))
	}))
	defer ts.Close()

	n, err := New(ts.URL).Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("count = %d", n)
	}
}
