package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
)

func TestGeoFetcher_Search_Success(t *testing.T) {
	var seenQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"resultsCount":1,"searchResults":[{"name":"Diner"}]}`))
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	geoFetcher := fetcher.NewGeoFetcher(sink, 5*time.Second)

	result, err := geoFetcher.Search(
		context.Background(),
		fetcher.NewSearchParam(mustParseURL(t, server.URL), "secret-key", "49931", 10, 10, "ignore"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Origin() != "49931" {
		t.Errorf("expected origin '49931', got %q", result.Origin())
	}
	if string(result.Body()) != `{"resultsCount":1,"searchResults":[{"name":"Diner"}]}` {
		t.Errorf("unexpected body: %s", result.Body())
	}

	// The fixed query parameters of the radius search.
	expectations := map[string]string{
		"key":         "secret-key",
		"origin":      "49931",
		"radius":      "10",
		"maxMatches":  "10",
		"ambiguities": "ignore",
		"outFormat":   "json",
	}
	for param, expected := range expectations {
		if got := seenQuery.Get(param); got != expected {
			t.Errorf("expected query %s=%s, got %q", param, expected, got)
		}
	}

	if len(sink.fetchEvents) != 1 {
		t.Errorf("expected 1 fetch event, got %d", len(sink.fetchEvents))
	}
}

func TestGeoFetcher_Search_PlaceholderOriginIsStillSent(t *testing.T) {
	var seenOrigin string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOrigin = r.URL.Query().Get("origin")
		w.Write([]byte(`{"resultsCount":0,"searchResults":[]}`))
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	geoFetcher := fetcher.NewGeoFetcher(sink, 5*time.Second)

	// A record without an address carries the literal placeholder zipcode;
	// the request goes out regardless.
	_, err := geoFetcher.Search(
		context.Background(),
		fetcher.NewSearchParam(mustParseURL(t, server.URL), "secret-key", "No Zipcode", 10, 10, "ignore"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seenOrigin != "No Zipcode" {
		t.Errorf("expected origin 'No Zipcode', got %q", seenOrigin)
	}
}

func TestGeoFetcher_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	geoFetcher := fetcher.NewGeoFetcher(sink, 5*time.Second)

	_, err := geoFetcher.Search(
		context.Background(),
		fetcher.NewSearchParam(mustParseURL(t, server.URL), "secret-key", "49931", 10, 10, "ignore"),
	)
	if err == nil {
		t.Fatal("expected an error for a 5xx response")
	}

	var fetchErr *fetcher.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.Cause != fetcher.ErrCauseRequest5xx {
		t.Errorf("expected cause %q, got %q", fetcher.ErrCauseRequest5xx, fetchErr.Cause)
	}
	if len(sink.errorEvents) != 1 {
		t.Errorf("expected 1 error event, got %d", len(sink.errorEvents))
	}
}
