package darkgraph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrUnexpectedStatus is returned when the collector answers anything but 200.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Fetcher retrieves one poll response.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Source polls a collector's graphs document over HTTP.
type Source struct {
	client *http.Client
	url    *url.URL
}

// NewSource creates a source for graphsURL. A zero timeout leaves fetches unbounded.
func NewSource(graphsURL *url.URL, timeout time.Duration) (*Source, error) {
	if graphsURL == nil || graphsURL.Host == "" {
		return nil, fmt.Errorf("invalid graphs url %v", graphsURL)
	}
	return &Source{
		client: &http.Client{Timeout: timeout},
		url:    graphsURL,
	}, nil
}

// URL returns the address the source polls.
func (s *Source) URL() *url.URL {
	return s.url
}

// Fetch issues one GET, asking every cache on the way to pass it through.
func (s *Source) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("If-Modified-Since", STALE_DATE)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, s.url)
	}

	snap, err := ParseGraphs(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.url, err)
	}
	return snap, nil
}

// Check fetches once and verifies every wanted series is present.
func (s *Source) Check(ctx context.Context, series []Series) error {
	snap, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	for _, g := range series {
		if _, err := snap.Buckets(g.Name); err != nil {
			return fmt.Errorf("%w (document has %s)", err, strings.Join(snap.SeriesNames(), ", "))
		}
	}
	return nil
}

// ProbeSource tries URL variants derived from base and returns the first one,
// in preference order, that serves a usable graphs document.
func ProbeSource(ctx context.Context, base *url.URL, series []Series, timeout time.Duration, log *zap.SugaredLogger) (*Source, error) {
	variants := generateURLVariants(base)
	found := make([]*Source, len(variants))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, variant := range variants {
		i, variant := i, variant
		g.Go(func() error {
			src, err := NewSource(variant, timeout)
			if err != nil {
				log.Debugw("skipping variant", "url", variant.String(), "error", err)
				return nil
			}
			if err := src.Check(ctx, series); err != nil {
				log.Debugw("graphs check failed", "url", variant.String(), "error", err)
				return nil
			}
			log.Infow("found graphs endpoint", "url", variant.String())
			found[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, src := range found {
		if src != nil {
			return src, nil
		}
	}
	return nil, fmt.Errorf("no graphs endpoint found for %s", base)
}

// generateURLVariants creates the URL combinations to probe
func generateURLVariants(base *url.URL) []*url.URL {
	var variants []*url.URL
	hostname := base.Hostname()
	port := base.Port()

	// Schemes to try: honour the given one first
	schemes := []string{"http", "https"}
	if base.Scheme == "https" {
		schemes = []string{"https", "http"}
	}

	// 667 is darkstat's default port
	ports := []string{"667", "80", "443"}
	if port != "" {
		ports = append([]string{port}, ports...)
	}

	// Remove duplicates
	seen := make(map[string]bool)
	uniquePorts := []string{}
	for _, p := range ports {
		if !seen[p] {
			seen[p] = true
			uniquePorts = append(uniquePorts, p)
		}
	}
	ports = uniquePorts

	// Paths to try: the given document, or graphs.xml below the given base path
	var paths []string
	switch {
	case strings.HasSuffix(base.Path, ".xml"):
		paths = []string{base.Path}
	case base.Path == "" || base.Path == "/":
		paths = []string{"/graphs.xml"}
	default:
		paths = []string{path.Join(base.Path, "graphs.xml"), "/graphs.xml"}
	}

	// Generate all combinations
	for _, scheme := range schemes {
		for _, p := range ports {
			for _, urlPath := range paths {
				variants = append(variants, &url.URL{
					Scheme: scheme,
					Host:   hostname + ":" + p,
					Path:   urlPath,
				})
			}
		}
	}

	return variants
}
