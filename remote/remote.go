// Package remote downloads template images over HTTP.
package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
)

// ErrNoFileName is returned when no file name was given and the URL has none.
var ErrNoFileName = errors.New("remote: could not determine file name from URL")

// maxBodySize bounds a single download.
const maxBodySize = 64 << 20

// HTTPError reports a response with a status code of 400 or above.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("remote: GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// NewClient returns an HTTP client with the given timeout. When verifyTLS is
// false certificate checks are skipped.
func NewClient(timeout time.Duration, verifyTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !verifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via verify_ssl: false
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// FileName decides the local file name for rawURL. An empty name is taken
// from the last URL path segment. A name without an extension gets the URL's
// extension. Spaces become underscores.
func FileName(rawURL, name string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("remote: parse url: %w", err)
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		base = ""
	}
	if name == "" {
		name = base
		if name == "" {
			return "", ErrNoFileName
		}
	}
	if filepath.Ext(name) == "" {
		name += path.Ext(base)
	}
	name = strings.ReplaceAll(name, " ", "_")
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("remote: file name %q must not contain path separators", name)
	}
	return name, nil
}

// Pull downloads rawURL into dir and returns the written path. The file is
// written atomically so a failed download never leaves a partial template.
func Pull(ctx context.Context, client *http.Client, rawURL, dir, name string) (string, error) {
	fileName, err := FileName(rawURL, name)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("remote: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &HTTPError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("remote: read %s: %w", rawURL, err)
	}
	if len(body) > maxBodySize {
		return "", fmt.Errorf("remote: %s is larger than %d bytes", rawURL, maxBodySize)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("remote: create %s: %w", dir, err)
	}
	target := filepath.Join(dir, fileName)
	if err := atomic.WriteFile(target, bytes.NewReader(body)); err != nil {
		return "", fmt.Errorf("remote: write %s: %w", target, err)
	}
	return target, nil
}

// Item is one download request.
type Item struct {
	Name string
	URL  string
}

// Outcome is the result of one download in PullAll.
type Outcome struct {
	Item Item
	Path string
	Err  error
}

// PullAll downloads items into dir with at most concurrency requests in
// flight. A failed item never stops the others; outcomes keep the order of
// items.
func PullAll(ctx context.Context, client *http.Client, items []Item, dir string, concurrency int, logger *slog.Logger) []Outcome {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	out := make([]Outcome, len(items))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, it := range items {
		g.Go(func() error {
			logger.Debug("pulling template", slog.String("url", it.URL), slog.String("name", it.Name))
			p, err := Pull(ctx, client, it.URL, dir, it.Name)
			if err != nil {
				logger.Debug("pull failed", slog.String("url", it.URL), slog.Any("error", err))
			}
			out[i] = Outcome{Item: it, Path: p, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
