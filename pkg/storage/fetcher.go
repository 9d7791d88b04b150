package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves document bytes by URL or storage key
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// DocumentFetcher resolves http(s) URLs directly and falls back to the
// configured object storage for bucket keys.
type DocumentFetcher struct {
	storage    Storage
	httpClient *http.Client
	maxBytes   int64
}

// NewDocumentFetcher creates a fetcher backed by the given storage
func NewDocumentFetcher(store Storage) *DocumentFetcher {
	return &DocumentFetcher{
		storage:    store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxBytes:   32 << 20, // 32 MiB cap on downloaded documents
	}
}

var _ Fetcher = (*DocumentFetcher)(nil)

// Fetch downloads the document identified by ref
func (f *DocumentFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return f.fetchURL(ctx, ref)
	}

	body, err := f.storage.Download(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", ref, err)
	}
	defer body.Close()

	return io.ReadAll(io.LimitReader(body, f.maxBytes))
}

func (f *DocumentFetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
}
