package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/torosent/minihttp/internal/config"
	"github.com/torosent/minihttp/internal/httpclient"
	"github.com/torosent/minihttp/internal/kv"
	"github.com/torosent/minihttp/internal/output"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestGetPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("User-Agent"); got != "minihttp/"+version {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.Header.Get(httpclient.PoweredByHeader); got != "Go" {
			t.Errorf("%s = %q", httpclient.PoweredByHeader, got)
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hello")
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "get", srv.URL)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	lines := strings.Split(stdout, "\n")
	if !strings.Contains(lines[0], "200") {
		t.Fatalf("status line = %q, want it to contain 200", lines[0])
	}
	if !strings.Contains(stdout, `Content-Type: "text/plain"`) {
		t.Fatalf("headers missing from output:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "\n\nhello\n") {
		t.Fatalf("body not printed last:\n%q", stdout)
	}
}

func TestPostJSON(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7}`)
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "post", srv.URL, "name=bob", "age=", "name=alice", "expr=a=b")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := map[string]string{"name": "alice", "age": "", "expr": "a=b"}
	if len(received) != len(want) {
		t.Fatalf("body = %v, want %v", received, want)
	}
	for k, v := range want {
		if received[k] != v {
			t.Fatalf("body[%q] = %q, want %q", k, received[k], v)
		}
	}

	if !strings.HasPrefix(stdout, "HTTP/1.1 201 Created\n") {
		t.Fatalf("unexpected status line:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "{\n  \"id\": 7\n}\n") {
		t.Fatalf("expected pretty JSON body:\n%q", stdout)
	}
}

func TestNon2xxExitsCleanly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "get", srv.URL)
	if err != nil {
		t.Fatalf("run() error = %v, want nil for HTTP 500", err)
	}
	if !strings.Contains(stdout, "500") {
		t.Fatalf("status missing:\n%s", stdout)
	}
}

func TestArgumentErrorsAbortBeforeDispatch(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"get invalid url", []string{"get", "abc"}, config.ErrInvalidURL},
		{"post invalid url", []string{"post", "abc", "a=1"}, config.ErrInvalidURL},
		{"post malformed pair", []string{"post", srv.URL, "a=1", "broken"}, kv.ErrMalformedPair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("run(%v) error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}

	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("server received %d requests, want 0", n)
	}
}

func TestArgumentCount(t *testing.T) {
	if _, _, err := runCLI(t, "get"); err == nil {
		t.Fatalf("expected error for get without url")
	}
	if _, _, err := runCLI(t, "get", "http://a.example", "http://b.example"); err == nil {
		t.Fatalf("expected error for get with two urls")
	}
	if _, _, err := runCLI(t, "post"); err == nil {
		t.Fatalf("expected error for post without url")
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, _, err := runCLI(t, "get", url)
	if !errors.Is(err, httpclient.ErrTransport) {
		t.Fatalf("run() error = %v, want ErrTransport", err)
	}
}

func TestInvalidJSONBodyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "get", srv.URL)
	if !errors.Is(err, output.ErrInvalidJSON) {
		t.Fatalf("run() error = %v, want ErrInvalidJSON", err)
	}
	if !strings.HasPrefix(stdout, "HTTP/1.1 200 OK") {
		t.Fatalf("status should already be printed:\n%s", stdout)
	}
}

func TestInvalidSettings(t *testing.T) {
	_, _, err := runCLI(t, "--color", "rainbow", "get", "http://example.com")
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("run() error = %v, want ValidationError", err)
	}
}

func TestVerboseLogsToStderr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, "-v", "get", srv.URL)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stderr, "sending request") {
		t.Fatalf("expected debug log on stderr, got %q", stderr)
	}
	if strings.Contains(stdout, "sending request") {
		t.Fatalf("debug log leaked to stdout")
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout, version) {
		t.Fatalf("version output = %q", stdout)
	}
}
