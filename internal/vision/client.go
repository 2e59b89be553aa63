// Package vision calls the Google Cloud Vision REST API to OCR rendered
// mill-certificate pages.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"
	visionScope     = "https://www.googleapis.com/auth/cloud-vision"
)

type Config struct {
	Endpoint        string        // override for tests; default is the public API
	CredentialsFile string        // service-account JSON; empty -> application default credentials
	LanguageHints   []string      // default ja, en
	Timeout         time.Duration // per-request; default 60s
}

// Client performs DOCUMENT_TEXT_DETECTION requests. Safe for concurrent
// use; the oauth2 transport caches and refreshes the token internally.
type Client struct {
	httpClient *http.Client
	endpoint   string
	langHints  []string
	logger     *slog.Logger
}

// NewClient builds a Vision client authenticated via the given service
// account file, or application default credentials when none is set.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	ts, err := tokenSource(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("vision credentials: %w", err)
	}
	httpClient := oauth2.NewClient(ctx, ts)
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	} else {
		httpClient.Timeout = 60 * time.Second
	}
	return newClient(httpClient, cfg, logger), nil
}

// newClient is the injection point for tests (plain http.Client against
// an httptest server).
func newClient(httpClient *http.Client, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	hints := cfg.LanguageHints
	if len(hints) == 0 {
		hints = []string{"ja", "en"}
	}
	return &Client{httpClient: httpClient, endpoint: endpoint, langHints: hints, logger: logger}
}

func tokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if credentialsFile != "" {
		raw, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, err
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, visionScope)
		if err != nil {
			return nil, err
		}
		return creds.TokenSource, nil
	}
	return google.DefaultTokenSource(ctx, visionScope)
}

// DetectDocumentText OCRs one image and returns the full text
// annotation. An API-level error is surfaced as a single error; a
// response with no annotation yields empty text.
func (c *Client) DetectDocumentText(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	reqBody := annotateRequest{
		Requests: []imageRequest{{
			Image:    imagePayload{Content: base64.StdEncoding.EncodeToString(data)},
			Features: []feature{{Type: "DOCUMENT_TEXT_DETECTION", MaxResults: 1}},
			ImageContext: &imageContext{
				LanguageHints: c.langHints,
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("vision api: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode vision response: %w", err)
	}
	if len(out.Responses) == 0 {
		return "", nil
	}
	first := out.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return "", fmt.Errorf("vision api: %s", first.Error.Message)
	}

	text := ""
	if first.FullTextAnnotation != nil {
		text = first.FullTextAnnotation.Text
	}
	c.logger.Debug("vision.detect.ok", "image", imagePath, "chars", len(text), "duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

// Vision API request/response shapes (the subset this tool uses).

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image        imagePayload  `json:"image"`
	Features     []feature     `json:"features"`
	ImageContext *imageContext `json:"imageContext,omitempty"`
}

type imagePayload struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	FullTextAnnotation *textAnnotation `json:"fullTextAnnotation"`
	Error              *apiError       `json:"error"`
}

type textAnnotation struct {
	Text string `json:"text"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
