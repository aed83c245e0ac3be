package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchNewsAPIEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apiKey"); got != "secret" {
			t.Errorf("Expected apiKey query parameter 'secret', got: %s", got)
		}
		if got := r.URL.Query().Get("q"); got != "news" {
			t.Errorf("Expected q query parameter 'news', got: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","articles":[{"title":"One"},{"title":"Two"}]}`))
	}))
	defer server.Close()

	client := NewClient("Newsdeck/test")
	records, err := client.Fetch(context.Background(), Config{
		Name:        "NewsAPI",
		Kind:        "newsapi",
		URL:         server.URL,
		APIKey:      "secret",
		APIKeyParam: "apiKey",
		Params:      map[string]string{"q": "news"},
		Timeout:     5,
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got: %d", len(records))
	}
	if records[0]["title"] != "One" {
		t.Errorf("Expected first record title 'One', got: %v", records[0]["title"])
	}
}

func TestFetchGuardianEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"status":"ok","results":[{"webTitle":"A"}]}}`))
	}))
	defer server.Close()

	client := NewClient("Newsdeck/test")
	records, err := client.Fetch(context.Background(), Config{
		Name: "The Guardian", Kind: "guardian", URL: server.URL, Timeout: 5,
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(records) != 1 || records[0]["webTitle"] != "A" {
		t.Errorf("Unexpected records: %v", records)
	}
}

func TestFetchNYTimesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"docs":[{"web_url":"https://a"},{"web_url":"https://b"}]}}`))
	}))
	defer server.Close()

	client := NewClient("Newsdeck/test")
	records, err := client.Fetch(context.Background(), Config{
		Name: "NY Times", Kind: "nytimes", URL: server.URL, Timeout: 5,
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got: %d", len(records))
	}
}

func TestFetchNon200IsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("Newsdeck/test")
	_, err := client.Fetch(context.Background(), Config{
		Name: "NewsAPI", Kind: "newsapi", URL: server.URL, Timeout: 5,
	})

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
	if fetchErr.Source != "NewsAPI" {
		t.Errorf("Expected error source 'NewsAPI', got: %s", fetchErr.Source)
	}
}

func TestFetchMalformedEnvelopeIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewClient("Newsdeck/test")
	_, err := client.Fetch(context.Background(), Config{
		Name: "The Guardian", Kind: "guardian", URL: server.URL, Timeout: 5,
	})

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
}

func TestFetchTimeoutIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"articles":[]}`))
	}))
	defer server.Close()

	client := NewClient("Newsdeck/test")
	// Sub-second timeout is not representable in whole seconds, so bound
	// the whole call through the parent context instead.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, Config{
		Name: "NewsAPI", Kind: "newsapi", URL: server.URL, Timeout: 5,
	})

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
}

func TestFetchEmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient("Newsdeck/test")
	records, err := client.Fetch(context.Background(), Config{
		Name: "NewsAPI", Kind: "newsapi", URL: server.URL, Timeout: 5,
	})

	if err != nil {
		t.Fatalf("Expected no error for decodable body without records, got: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected 0 records, got: %d", len(records))
	}
}
