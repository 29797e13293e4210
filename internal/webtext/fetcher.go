// Package webtext fetches a business website and reduces it to visible text.
package webtext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/idna"
)

const (
	defaultTimeout = 8 * time.Second
	maxBodyBytes   = 2 << 20
	trackingPrefix = "utm_"
	userAgent      = "Mozilla/5.0 (compatible; PresenceAudit/1.0)"
)

var idnaProfile = idna.Lookup

// TextFetcher returns page text, or ok=false when nothing could be fetched.
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) (text string, ok bool)
}

// HTTPClient abstracts HTTP requests for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher tries each candidate in order and returns the first success.
// A candidate is either "direct" or a proxy URL template with one %s that
// receives the query-escaped target.
type Fetcher struct {
	candidates []string
	client     HTTPClient
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout bounds each candidate attempt.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// DirectCandidate fetches the site without a proxy.
const DirectCandidate = "direct"

// New builds a Fetcher. With no candidates it fetches directly.
func New(candidates []string, opts ...Option) *Fetcher {
	cleaned := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{DirectCandidate}
	}
	f := &Fetcher{
		candidates: cleaned,
		client:     &http.Client{Timeout: defaultTimeout},
		timeout:    defaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchText implements TextFetcher. It never returns an error; total failure
// is reported as ok=false.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, bool) {
	target, err := SanitizeURL(rawURL)
	if err != nil {
		f.logger.Debug("Website url rejected", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}

	for _, candidate := range f.candidates {
		if ctx.Err() != nil {
			return "", false
		}
		endpoint := target.String()
		if candidate != DirectCandidate {
			if !strings.Contains(candidate, "%s") {
				continue
			}
			endpoint = fmt.Sprintf(candidate, url.QueryEscape(target.String()))
		}

		text, err := f.fetch(ctx, endpoint)
		if err != nil {
			f.logger.Debug("Website fetch candidate failed",
				zap.String("candidate", candidate),
				zap.Error(err))
			continue
		}
		return text, true
	}
	return "", false
}

func (f *Fetcher) fetch(ctx context.Context, endpoint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return ExtractText(io.LimitReader(resp.Body, maxBodyBytes))
}

// ExtractText parses HTML and returns its visible text with whitespace
// collapsed.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, template").Remove()

	var parts []string
	doc.Find("a[href^='tel:']").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			parts = append(parts, strings.TrimPrefix(href, "tel:"))
		}
	})
	parts = append(parts, doc.Text())

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if text == "" {
		return "", errors.New("empty document")
	}
	return text, nil
}

// SanitizeURL forces https, converts internationalized hosts to ASCII and
// drops tracking parameters.
func SanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	u.Scheme = "https"

	host := u.Hostname()
	ascii, err := idnaProfile.ToASCII(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}
	if port := u.Port(); port != "" {
		u.Host = ascii + ":" + port
	} else {
		u.Host = ascii
	}
	stripTracking(u)
	return u, nil
}

func stripTracking(u *url.URL) {
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}
