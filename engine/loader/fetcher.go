package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrFetchStatus is wrapped when a remote asset responds with a non-2xx status.
var ErrFetchStatus = errors.New("unexpected fetch status")

// Fetcher retrieves the raw bytes behind an asset URL.
type Fetcher interface {
	// Fetch reads the resource at rawURL.
	//
	// Parameters:
	//   - ctx: bounds the request
	//   - rawURL: http(s) URL, file:// URL or local path
	//
	// Returns:
	//   - []byte: the resource contents
	//   - error: error if the resource could not be read
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// httpFetcher is the default Fetcher: net/http for remote URLs, the filesystem for everything else.
type httpFetcher struct {
	client *http.Client
}

var _ Fetcher = &httpFetcher{}

// NewHTTPFetcher creates the default Fetcher.
//
// Parameters:
//   - timeout: per-request timeout for remote fetches (0 = none)
//
// Returns:
//   - Fetcher: the fetcher
func NewHTTPFetcher(timeout time.Duration) Fetcher {
	return &httpFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return readLocal(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %d: %w", rawURL, resp.StatusCode, ErrFetchStatus)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return data, nil
}

// readLocal reads a file:// URL or plain path.
func readLocal(rawURL string) ([]byte, error) {
	p := strings.TrimPrefix(rawURL, "file://")
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return data, nil
}

// resolveReference resolves ref relative to the asset at base, for both URLs and filesystem paths.
//
// Parameters:
//   - base: the URL or path of the referring asset
//   - ref: a possibly relative reference found inside it
//
// Returns:
//   - string: the absolute reference
func resolveReference(base, ref string) string {
	if r, err := url.Parse(ref); err == nil && r.IsAbs() {
		return ref
	}
	if b, err := url.Parse(base); err == nil && (b.Scheme == "http" || b.Scheme == "https") {
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	if strings.HasPrefix(base, "file://") {
		return "file://" + path.Join(path.Dir(strings.TrimPrefix(base, "file://")), ref)
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(base), ref)
}
