package binary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDownloaderOpen(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
	}{
		{
			name:       "successful_download",
			statusCode: http.StatusOK,
			body:       "archive bytes",
		},
		{
			name:       "404_not_found",
			statusCode: http.StatusNotFound,
			body:       "not found",
			wantErr:    true,
		},
		{
			name:       "500_server_error",
			statusCode: http.StatusInternalServerError,
			body:       "server error",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != DefaultUserAgent {
					t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			body, size, err := NewDownloader(nil).Open(context.Background(), server.URL, nil)

			if tt.wantErr {
				if err == nil {
					body.Close()
					t.Fatal("expected error but got none")
				}
				if !strings.Contains(err.Error(), "unexpected status code") {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer body.Close()

			content, err := io.ReadAll(body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(content) != tt.body {
				t.Errorf("body = %q, want %q", content, tt.body)
			}
			if size != int64(len(tt.body)) {
				t.Errorf("size = %d, want %d", size, len(tt.body))
			}
		})
	}
}

func TestDownloaderOpen_Progress(t *testing.T) {
	payload := strings.Repeat("x", 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	var lastReceived, lastTotal int64
	calls := 0
	body, _, err := NewDownloader(nil).Open(context.Background(), server.URL, func(received, total int64) {
		if received < lastReceived {
			t.Errorf("progress went backwards: %d after %d", received, lastReceived)
		}
		lastReceived, lastTotal = received, total
		calls++
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer body.Close()

	if _, err := io.Copy(io.Discard, body); err != nil {
		t.Fatalf("read body: %v", err)
	}

	if calls == 0 {
		t.Fatal("progress callback never called")
	}
	if lastReceived != int64(len(payload)) {
		t.Errorf("final received = %d, want %d", lastReceived, len(payload))
	}
	if lastTotal != int64(len(payload)) {
		t.Errorf("total = %d, want %d", lastTotal, len(payload))
	}
}

func TestDownloaderOpen_Redirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer final.Close()

	redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer redirect.Close()

	body, _, err := NewDownloader(nil).Open(context.Background(), redirect.URL, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer body.Close()

	content, _ := io.ReadAll(body)
	if string(content) != "ok" {
		t.Errorf("body = %q, want ok", content)
	}

	var loop *httptest.Server
	loop = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, loop.URL, http.StatusFound)
	}))
	defer loop.Close()

	if _, _, err := NewDownloader(nil).Open(context.Background(), loop.URL, nil); err == nil {
		t.Error("expected error for redirect loop")
	}
}
