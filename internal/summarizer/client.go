// Package summarizer is the HTTP client for the external summarization
// service. The service is opaque; only the /upload/ and /download_summary/
// request and response shapes are contract.
package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docregistry/internal/config"
)

//go:generate mockgen -source=client.go -destination=mock/client_mock.go -package=mock

type Client interface {
	Summarize(ctx context.Context, filename string, file io.Reader) (*UploadResult, error)
	FetchSummary(ctx context.Context, name string) (string, error)
	DownloadURL(name string) string
}

// UploadResult is the JSON body the service returns from POST /upload/.
type UploadResult struct {
	OriginalFilename    string `json:"original_filename"`
	SummaryContent      string `json:"summary_content"`
	SummaryDownloadName string `json:"summary_download_name"`
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.SummarizerConfig) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Summarize streams the file as multipart form data to POST /upload/ and
// decodes the result. The body is piped, never buffered in full.
func (c *client) Summarize(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer writer.Close()

		part, partErr := writer.CreateFormFile("file", filename)
		if partErr != nil {
			_ = pw.CloseWithError(partErr)
			return
		}

		if _, copyErr := io.Copy(part, file); copyErr != nil {
			_ = pw.CloseWithError(copyErr)
			return
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("summarizer upload failed (%d): %s", resp.StatusCode, string(body))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode summarizer response: %w", err)
	}
	if result.SummaryDownloadName == "" {
		return nil, fmt.Errorf("summarizer response missing summary_download_name")
	}

	return &result, nil
}

// FetchSummary retrieves a previously generated summary artifact as text.
func (c *client) FetchSummary(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(name), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("summarizer download failed (%d): %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// DownloadURL derives the permanent artifact URL from the returned name.
func (c *client) DownloadURL(name string) string {
	return c.baseURL + "/download_summary/" + url.PathEscape(name)
}
