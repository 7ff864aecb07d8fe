// Package fetcher downloads source documents over HTTP. Failures are
// reported, never retried; the caller records them and moves on.
package fetcher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var pdfMagic = []byte("%PDF")

// Fetcher wraps an HTTP client with the per-request timeout and the PDF
// sanity checks.
type Fetcher struct {
	client      *resty.Client
	minPDFBytes int64
}

// New builds a Fetcher. minPDFBytes rejects truncated or error-page bodies
// that are clearly not a results document.
func New(timeout time.Duration, minPDFBytes int64) *Fetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	// Some asset hosts refuse requests without a browser user agent.
	client.SetHeader("User-Agent", "Mozilla/5.0")

	return &Fetcher{client: client, minPDFBytes: minPDFBytes}
}

// GetPage fetches a web page and returns its body.
func (f *Fetcher) GetPage(url string) (string, error) {
	resp, err := f.client.R().Get(RepairURL(url))
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("non-200 status code: %d", resp.StatusCode())
	}
	return string(resp.Body()), nil
}

// DownloadPDF fetches a PDF and writes it to dest, returning the body size.
// Bodies that are too small or lack the PDF magic are rejected and nothing is
// written.
func (f *Fetcher) DownloadPDF(url, dest string) (int64, error) {
	resp, err := f.client.R().Get(RepairURL(url))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch PDF: %w", err)
	}
	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("non-200 status code: %d", resp.StatusCode())
	}

	body := resp.Body()
	if int64(len(body)) < f.minPDFBytes {
		return 0, fmt.Errorf("response too small to be a PDF (%d bytes)", len(body))
	}
	if !bytes.HasPrefix(body, pdfMagic) {
		return 0, fmt.Errorf("response is not a PDF")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return 0, fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := os.WriteFile(dest, body, 0644); err != nil {
		return 0, fmt.Errorf("failed to save PDF: %w", err)
	}

	return int64(len(body)), nil
}

// RepairURL fixes the malformed URLs that appear in the catalog source:
// asset links concatenated onto a page URL, missing protocol slashes, and
// literal spaces.
func RepairURL(raw string) string {
	url := strings.TrimSpace(raw)

	// "https://www.example.org/...https://assets..." keeps only the asset link.
	if i := strings.LastIndex(url, "https://assets"); i > 0 {
		url = url[i:]
	}

	if strings.HasPrefix(url, "https:/") && !strings.HasPrefix(url, "https://") {
		url = "https://" + strings.TrimPrefix(url, "https:/")
	} else if strings.HasPrefix(url, "http:/") && !strings.HasPrefix(url, "http://") {
		url = "http://" + strings.TrimPrefix(url, "http:/")
	}

	return strings.ReplaceAll(url, " ", "%20")
}
