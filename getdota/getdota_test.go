package getdota

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"unicode/utf8"
)

const page = `<!DOCTYPE html>
<html>
<head><title>Get Dota</title></head>
<body>
<div class="patch">Current patch: <strong>7.35b</strong></div>
<div class="old">Previous: 7.34e</div>
</body>
</html>`

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		body     string
		expected string
		ok       bool
	}{
		{body: page, expected: "7.35b", ok: true},
		{body: "v6.88 released", expected: "6.88 ", ok: true},
		{body: "7.35", expected: "7.35", ok: true},
		{body: "123.456", expected: "23.45", ok: true},
		{body: "<html>no numbers here</html>", ok: false},
		{body: "1. first 2. second", ok: false},
		{body: "", ok: false},
		{body: "patch 7.35\xa1\xd2 new", expected: "7.35 ", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			v, ok := ExtractVersion([]byte(tt.body))
			if ok != tt.ok {
				t.Fatalf("expected ok=%t, got %t", tt.ok, ok)
			}
			if v != tt.expected {
				t.Errorf("expected: %q\nactual:%q", tt.expected, v)
			}
			if !utf8.ValidString(v) {
				t.Errorf("expected valid UTF-8, got %q", v)
			}
		})
	}
}

func TestLatest(t *testing.T) {
	t.Run("returns first version on page", func(t *testing.T) {
		var hits int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			fmt.Fprint(w, page)
		}))
		defer ts.Close()

		v, err := New(ts.Client(), ts.URL).Latest(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "7.35b" {
			t.Errorf("expected 7.35b, got %q", v)
		}
		if n := atomic.LoadInt32(&hits); n != 1 {
			t.Errorf("expected exactly one request, got %d", n)
		}
	})

	t.Run("decodes legacy charsets", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=tis-620")
			// "แพตช์ 7.35ก" in TIS-620
			w.Write([]byte("<p>\xe1\xbe\xb5\xaa\xec 7.35\xa1</p>"))
		}))
		defer ts.Close()

		v, err := New(ts.Client(), ts.URL).Latest(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "7.35ก" {
			t.Errorf("expected: %q\nactual:%q", "7.35ก", v)
		}
	})

	t.Run("fails on non-2xx", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, page)
		}))
		defer ts.Close()

		_, err := New(ts.Client(), ts.URL).Latest(context.Background())
		if err == nil {
			t.Fatal("expected error for 500 response")
		}
		if err == ErrNoVersion {
			t.Error("expected status error, got ErrNoVersion")
		}
	})

	t.Run("fails without a version", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body>maintenance</body></html>")
		}))
		defer ts.Close()

		_, err := New(ts.Client(), ts.URL).Latest(context.Background())
		if err != ErrNoVersion {
			t.Errorf("expected ErrNoVersion, got %v", err)
		}
	})

	t.Run("fails on network error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := ts.URL
		ts.Close()

		_, err := New(nil, url).Latest(context.Background())
		if err == nil {
			t.Fatal("expected error for closed server")
		}
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, page)
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := New(ts.Client(), ts.URL).Latest(ctx); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestNewDefaults(t *testing.T) {
	if u := New(nil, "").url; u != DefaultURL {
		t.Errorf("expected %q, got %q", DefaultURL, u)
	}
}
