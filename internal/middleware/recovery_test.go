// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLogs routes the default slog logger into a buffer of JSON lines
// for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// logRecords decodes every JSON log line in buf.
func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func TestRecovererAnswersJSON(t *testing.T) {
	panics := map[string]any{
		"string": "nil map in forum listing",
		"error":  http.ErrNoCookie,
		"int":    42,
	}
	for name, value := range panics {
		t.Run(name, func(t *testing.T) {
			captureLogs(t)
			h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(value)
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/forum/channels/asia/posts", nil))

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want 500", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type: got %q", ct)
			}
			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != "Internal Server Error" {
				t.Errorf("error: got %q", body["error"])
			}
		})
	}
}

func TestRecovererLogsRequestID(t *testing.T) {
	logs := captureLogs(t)
	h := chimw.RequestID(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("coach reply was nil")
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coach/messages", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-coach-17")
	h.ServeHTTP(httptest.NewRecorder(), req)

	recs := logRecords(t, logs)
	if len(recs) != 1 {
		t.Fatalf("log records: got %d, want 1", len(recs))
	}
	rec := recs[0]
	checks := map[string]string{
		"msg":        "panic recovered",
		"level":      "ERROR",
		"error":      "coach reply was nil",
		"method":     http.MethodPost,
		"path":       "/api/v1/coach/messages",
		"request_id": "req-coach-17",
	}
	for key, want := range checks {
		if got, _ := rec[key].(string); got != want {
			t.Errorf("%s: got %q, want %q", key, got, want)
		}
	}
	if stack, _ := rec["stack"].(string); !strings.Contains(stack, "goroutine") {
		t.Error("stack trace missing from the log")
	}
}

func TestRecovererRepanicsAbort(t *testing.T) {
	logs := captureLogs(t)
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
		if logs.Len() != 0 {
			t.Errorf("an aborted request must not be logged as a panic: %s", logs)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/tutorials/submissions", nil))
	t.Fatal("ErrAbortHandler should propagate to net/http")
}

func TestRecovererPassThrough(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/forum/posts", nil))

	if rr.Code != http.StatusCreated || rr.Body.String() != `{"id":"1"}` {
		t.Errorf("got %d %q", rr.Code, rr.Body.String())
	}
}
