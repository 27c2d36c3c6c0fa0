package summarizer_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docregistry/internal/config"
	"docregistry/internal/summarizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) summarizer.Client {
	return summarizer.NewClient(config.SummarizerConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})
}

func TestClient_Summarize(t *testing.T) {
	t.Run("streams multipart file and decodes the result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/upload/", r.URL.Path)

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()

			assert.Equal(t, "report.pdf", header.Filename)
			content, _ := io.ReadAll(file)
			assert.Equal(t, "raw document bytes", string(content))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"original_filename": "report.pdf",
				"summary_content": "a short summary",
				"summary_download_name": "report_summary.txt"
			}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		result, err := c.Summarize(context.Background(), "report.pdf", strings.NewReader("raw document bytes"))

		require.NoError(t, err)
		assert.Equal(t, "report.pdf", result.OriginalFilename)
		assert.Equal(t, "a short summary", result.SummaryContent)
		assert.Equal(t, "report_summary.txt", result.SummaryDownloadName)
	})

	t.Run("non-2xx status surfaces as error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"unsupported file type"}`, http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		_, err := c.Summarize(context.Background(), "report.exe", strings.NewReader("bytes"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
	})

	t.Run("response without download name is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"original_filename":"report.pdf","summary_content":"text"}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		_, err := c.Summarize(context.Background(), "report.pdf", strings.NewReader("bytes"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "summary_download_name")
	})

	t.Run("unreachable service returns transport error", func(t *testing.T) {
		c := newTestClient("http://127.0.0.1:1")
		_, err := c.Summarize(context.Background(), "report.pdf", strings.NewReader("bytes"))
		require.Error(t, err)
	})
}

func TestClient_FetchSummary(t *testing.T) {
	t.Run("returns artifact text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/download_summary/report_summary.txt", r.URL.Path)
			_, _ = w.Write([]byte("the summary text"))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		text, err := c.FetchSummary(context.Background(), "report_summary.txt")

		require.NoError(t, err)
		assert.Equal(t, "the summary text", text)
	})

	t.Run("missing artifact -> error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL)
		_, err := c.FetchSummary(context.Background(), "nope.txt")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestClient_DownloadURL(t *testing.T) {
	c := newTestClient("http://summarizer.local/")

	assert.Equal(t,
		"http://summarizer.local/download_summary/report_summary.txt",
		c.DownloadURL("report_summary.txt"),
	)
	// Names with spaces or slashes must stay a single path segment.
	assert.Equal(t,
		"http://summarizer.local/download_summary/my%20report_summary.txt",
		c.DownloadURL("my report_summary.txt"),
	)
}
