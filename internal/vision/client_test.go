package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeImage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page-1.png")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testClient(t *testing.T, handler http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.Endpoint = srv.URL
	return newClient(srv.Client(), cfg, nil)
}

func TestDetectDocumentText(t *testing.T) {
	imgPath := writeImage(t, "fake png bytes")

	var got annotateRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(annotateResponse{
			Responses: []imageResponse{{
				FullTextAnnotation: &textAnnotation{Text: "発行日 2025/08/04\nSS400"},
			}},
		})
	}, Config{})

	text, err := c.DetectDocumentText(context.Background(), imgPath)
	if err != nil {
		t.Fatalf("DetectDocumentText: %v", err)
	}
	if text != "発行日 2025/08/04\nSS400" {
		t.Errorf("text = %q", text)
	}

	if len(got.Requests) != 1 {
		t.Fatalf("got %d requests in payload, want 1", len(got.Requests))
	}
	req := got.Requests[0]
	if want := base64.StdEncoding.EncodeToString([]byte("fake png bytes")); req.Image.Content != want {
		t.Error("image content is not the base64 of the file")
	}
	if len(req.Features) != 1 || req.Features[0].Type != "DOCUMENT_TEXT_DETECTION" {
		t.Errorf("features = %+v", req.Features)
	}
	if req.ImageContext == nil || strings.Join(req.ImageContext.LanguageHints, ",") != "ja,en" {
		t.Errorf("language hints = %+v", req.ImageContext)
	}
}

func TestDetectDocumentTextCustomHints(t *testing.T) {
	imgPath := writeImage(t, "x")

	var got annotateRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(annotateResponse{Responses: []imageResponse{{}}})
	}, Config{LanguageHints: []string{"ja"}})

	if _, err := c.DetectDocumentText(context.Background(), imgPath); err != nil {
		t.Fatalf("DetectDocumentText: %v", err)
	}
	if hints := got.Requests[0].ImageContext.LanguageHints; len(hints) != 1 || hints[0] != "ja" {
		t.Errorf("language hints = %v", hints)
	}
}

func TestDetectDocumentTextAPIError(t *testing.T) {
	imgPath := writeImage(t, "x")

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(annotateResponse{
			Responses: []imageResponse{{
				Error: &apiError{Code: 7, Message: "permission denied"},
			}},
		})
	}, Config{})

	_, err := c.DetectDocumentText(context.Background(), imgPath)
	if err == nil {
		t.Fatal("expected API error")
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("err = %v, want the API message surfaced", err)
	}
}

func TestDetectDocumentTextHTTPError(t *testing.T) {
	imgPath := writeImage(t, "x")

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}, Config{})

	_, err := c.DetectDocumentText(context.Background(), imgPath)
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v, want status in message", err)
	}
}

func TestDetectDocumentTextNoAnnotation(t *testing.T) {
	imgPath := writeImage(t, "x")

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(annotateResponse{Responses: []imageResponse{{}}})
	}, Config{})

	text, err := c.DetectDocumentText(context.Background(), imgPath)
	if err != nil {
		t.Fatalf("DetectDocumentText: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty for a blank page", text)
	}
}

func TestDetectDocumentTextMissingImage(t *testing.T) {
	c := newClient(http.DefaultClient, Config{Endpoint: "http://127.0.0.1:0"}, nil)
	if _, err := c.DetectDocumentText(context.Background(), filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Fatal("expected error for missing image file")
	}
}
