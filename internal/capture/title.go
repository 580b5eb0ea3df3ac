package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/utils"
)

// DefaultFetchTimeout bounds a single title lookup
const DefaultFetchTimeout = 5 * time.Second

// maxPageBytes caps how much of a page is parsed
const maxPageBytes = 1 << 20

// TitleResolver fills a missing title. It returns "" when nothing could be found.
type TitleResolver interface {
	Resolve(ctx context.Context, pageURL string) string
}

// TitleCache stores resolved titles, see store/redis
type TitleCache interface {
	CacheTitle(ctx context.Context, pageURL, title string, ttl time.Duration) error
	CachedTitle(ctx context.Context, pageURL string) (string, bool, error)
}

// ErrBlockedDestination is returned when a lookup would reach a non-public address
var ErrBlockedDestination = errors.New("destination address is not public")

// HTTPTitleResolver fetches the page and reads <title>, then og:title, then the first h1.
// Only http and https pages are fetched. Unless allowPrivate is set, connections to
// loopback, private and link-local addresses are refused, redirects included.
type HTTPTitleResolver struct {
	client   *http.Client
	cache    TitleCache
	cacheTTL time.Duration
	log      logger.Logger
}

// NewHTTPTitleResolver creates a resolver. cache may be nil.
func NewHTTPTitleResolver(timeout time.Duration, cache TitleCache, cacheTTL time.Duration, allowPrivate bool, log logger.Logger) *HTTPTitleResolver {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPTitleResolver{
		client:   &http.Client{Timeout: timeout, Transport: newTransport(timeout, allowPrivate)},
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Resolve implements TitleResolver. Failures are logged and yield "".
func (r *HTTPTitleResolver) Resolve(ctx context.Context, pageURL string) string {
	if r.cache != nil {
		if title, ok, err := r.cache.CachedTitle(ctx, pageURL); err == nil && ok {
			return title
		}
	}

	title, err := r.fetch(ctx, pageURL)
	if err != nil {
		r.log.Debug("title lookup failed", logger.String("url", pageURL), logger.Error(err))
		return ""
	}

	if r.cache != nil && title != "" {
		if err := r.cache.CacheTitle(ctx, pageURL, title, r.cacheTTL); err != nil {
			r.log.Warn("failed to cache title", logger.String("url", pageURL), logger.Error(err))
		}
	}
	return title
}

func newTransport(timeout time.Duration, allowPrivate bool) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	if !allowPrivate {
		dialer.Control = publicOnly
		// the dial check must see the destination, not a proxy
		t.Proxy = nil
	}
	t.DialContext = dialer.DialContext
	return t
}

// publicOnly runs after name resolution, on the address actually dialed
func publicOnly(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedDestination, address)
	}
	if !utils.IsPublicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedDestination, ap.Addr())
	}
	return nil
}

func (r *HTTPTitleResolver) fetch(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "marks/1.0 (+title lookup)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return ExtractTitle(io.LimitReader(resp.Body, maxPageBytes))
}

// ExtractTitle reads the page title from an HTML document
func ExtractTitle(body io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}
	if og, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og, nil
		}
	}
	return strings.TrimSpace(doc.Find("h1").First().Text()), nil
}
