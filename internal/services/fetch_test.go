package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/playcap/internal/shared"
	tu "github.com/desertthunder/playcap/internal/testing"
)

func TestHTTPFetcher(t *testing.T) {
	t.Run("NewHTTPFetcher defaults", func(t *testing.T) {
		f := NewHTTPFetcher("", 0, nil)
		if f.userAgent != DefaultUserAgent {
			t.Errorf("expected default user agent, got %s", f.userAgent)
		}
		if f.httpClient.Timeout != DefaultFetchTimeout {
			t.Errorf("expected default timeout, got %v", f.httpClient.Timeout)
		}
	})

	t.Run("provided client is not modified", func(t *testing.T) {
		client := &http.Client{}
		f := NewHTTPFetcher("", 3*time.Second, client)
		if client.Timeout != 0 {
			t.Errorf("caller's client timeout changed to %v", client.Timeout)
		}
		if f.httpClient == client || f.httpClient.Timeout != 3*time.Second {
			t.Errorf("expected a copied client with the timeout set, got %v", f.httpClient.Timeout)
		}
	})

	t.Run("provided timeout on client is kept", func(t *testing.T) {
		f := NewHTTPFetcher("", 3*time.Second, &http.Client{Timeout: time.Minute})
		if f.httpClient.Timeout != time.Minute {
			t.Errorf("expected client timeout to win, got %v", f.httpClient.Timeout)
		}
	})

	t.Run("returns body and content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("User-Agent") != "test-agent" {
				t.Errorf("expected user agent header, got %q", r.Header.Get("User-Agent"))
			}
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			w.Write([]byte("<p>Bj\xf6rk</p>"))
		}))
		defer server.Close()

		page, err := NewHTTPFetcher("test-agent", time.Second, nil).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(page.Body) != "<p>Bj\xf6rk</p>" {
			t.Errorf("body should be returned undecoded, got %q", page.Body)
		}
		if !strings.Contains(page.ContentType, "iso-8859-1") {
			t.Errorf("expected content type to be kept, got %q", page.ContentType)
		}
	})

	t.Run("non-2xx is a FetchError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewHTTPFetcher("", time.Second, nil).Fetch(context.Background(), server.URL)
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if fetchErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", fetchErr.StatusCode)
		}
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Error("expected error to match ErrFetchFailed")
		}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("expected status in message, got %q", err.Error())
		}
	})

	t.Run("transport error is a FetchError", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		_, err := NewHTTPFetcher("", time.Second, client).Fetch(context.Background(), "http://example.invalid/")
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected cause in message, got %q", err.Error())
		}
	})

	t.Run("oversized body is a FetchError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("x", 17)))
		}))
		defer server.Close()

		f := NewHTTPFetcher("", time.Second, nil)
		f.maxBytes = 16
		_, err := f.Fetch(context.Background(), server.URL)
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "exceeds 16 bytes") {
			t.Errorf("expected size in message, got %q", err.Error())
		}
	})

	t.Run("body at the size limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("x", 16)))
		}))
		defer server.Close()

		f := NewHTTPFetcher("", time.Second, nil)
		f.maxBytes = 16
		page, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Body) != 16 {
			t.Errorf("expected 16 bytes, got %d", len(page.Body))
		}
	})

	t.Run("body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		_, err := NewHTTPFetcher("", time.Second, client).Fetch(context.Background(), "http://example.test/")
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Fatalf("expected ErrFetchFailed, got %v", err)
		}
	})
}
