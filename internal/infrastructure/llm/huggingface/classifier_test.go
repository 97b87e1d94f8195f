package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestClassifyCleansAndTruncatesLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("Content-Type = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"label":"cat, felis catus","score":0.91},
			{"label":" animal ","score":0.72},
			{"label":"","score":0.11},
			{"label":"never reached","score":0.01}
		]`))
	}))
	defer server.Close()

	c := New(server.URL, "test-key", nil)
	got := c.Classify(context.Background(), []byte{0xff, 0xd8})

	want := []string{"cat", "animal"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Classify() = %v, want %v", got, want)
	}
	for _, tag := range got {
		if tag == "" || strings.Contains(tag, ",") {
			t.Fatalf("tag %q must be non-empty and comma-free", tag)
		}
	}
}

func TestClassifyNeverReturnsMoreThanThree(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"label":"a"},{"label":"b"},{"label":"c"},{"label":"d"},{"label":"e"}
		]`))
	}))
	defer server.Close()

	c := New(server.URL, "k", nil)
	got := c.Classify(context.Background(), []byte{0x01})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestClassifyRemoteFailureYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(server.URL, "k", nil)
	if got := c.Classify(context.Background(), []byte{0x01}); got != nil {
		t.Fatalf("expected nil labels on failure, got %v", got)
	}
}

func TestClassifyTransportFailureYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	c := New(server.URL, "k", nil)
	if got := c.Classify(context.Background(), []byte{0x01}); got != nil {
		t.Fatalf("expected nil labels on transport failure, got %v", got)
	}
}

func TestClassifyHTTPErrorClassification(t *testing.T) {
	retryable := classifyHTTPError(&HTTPStatusError{StatusCode: http.StatusTooManyRequests})
	if !retryable.Retryable || !retryable.RecordFailure {
		t.Fatalf("429 should be retryable and recorded: %+v", retryable)
	}

	permanent := classifyHTTPError(&HTTPStatusError{StatusCode: http.StatusUnauthorized})
	if permanent.Retryable {
		t.Fatalf("401 must not be retried: %+v", permanent)
	}
}
