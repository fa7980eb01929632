package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponse(t *testing.T) {
	t.Run("defaults to 200 on first write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		res := NewResponse(rec)

		if res.Written() {
			t.Error("fresh response reports Written")
		}
		if res.Status() != http.StatusOK {
			t.Errorf("Status() = %d, want 200 before any write", res.Status())
		}

		n, err := res.Write([]byte("hello"))
		if err != nil || n != 5 {
			t.Fatalf("Write = (%d, %v), want (5, nil)", n, err)
		}
		if !res.Written() {
			t.Error("response not marked written after Write")
		}
		if res.Status() != http.StatusOK {
			t.Errorf("Status() = %d, want 200", res.Status())
		}
		if res.Size() != 5 {
			t.Errorf("Size() = %d, want 5", res.Size())
		}
	})

	t.Run("WriteHeader after first write is ignored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		res := NewResponse(rec)

		res.WriteHeader(http.StatusTeapot)
		res.WriteHeader(http.StatusOK)

		if res.Status() != http.StatusTeapot {
			t.Errorf("Status() = %d, want 418", res.Status())
		}
		if rec.Code != http.StatusTeapot {
			t.Errorf("recorded code = %d, want 418", rec.Code)
		}
	})

	t.Run("Text sets content type and status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		res := NewResponse(rec)

		if err := res.Text(http.StatusNotFound, "nope"); err != nil {
			t.Fatalf("Text: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d, want 404", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
			t.Errorf("Content-Type = %q", got)
		}
		if rec.Body.String() != "nope" {
			t.Errorf("body = %q, want %q", rec.Body.String(), "nope")
		}
	})

	t.Run("JSON encodes the value", func(t *testing.T) {
		rec := httptest.NewRecorder()
		res := NewResponse(rec)

		if err := res.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
			t.Fatalf("JSON: %v", err)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q", got)
		}
		if rec.Body.String() != "{\"status\":\"ok\"}\n" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("size accumulates across writes", func(t *testing.T) {
		res := NewResponse(httptest.NewRecorder())
		_, _ = res.Write([]byte("ab"))
		_, _ = res.Write([]byte("cde"))
		if res.Size() != 5 {
			t.Errorf("Size() = %d, want 5", res.Size())
		}
	})
}
