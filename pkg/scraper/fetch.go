package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT x.y; Win64; x64; rv:10.0) Gecko/20100101 Firefox/10.0"
)

var errEmptyURL = errors.New("empty url")

// CollyFetcher performs a single GET per Fetch call using a fresh colly collector,
// so nothing is remembered between calls.
type CollyFetcher struct {
	timeout   time.Duration
	cacheDir  string
	userAgent string
	logger    *zap.Logger
}

type FetcherOption func(*CollyFetcher)

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *CollyFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithCacheDir enables colly's on-disk response cache. Empty disables caching.
func WithCacheDir(dir string) FetcherOption {
	return func(f *CollyFetcher) {
		f.cacheDir = dir
	}
}

func WithUserAgent(ua string) FetcherOption {
	return func(f *CollyFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

func WithFetchLogger(logger *zap.Logger) FetcherOption {
	return func(f *CollyFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFetcher(opts ...FetcherOption) *CollyFetcher {
	f := &CollyFetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *CollyFetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch returns the whole response body decoded to UTF-8, with no size limit.
// Any failure, including a non-2xx status, is reported as a *NetworkError and
// left to the caller to log.
func (f *CollyFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	if url == "" {
		return "", &NetworkError{URL: url, Err: errEmptyURL}
	}

	options := []colly.CollectorOption{
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
	}
	if f.cacheDir != "" {
		options = append(options, colly.CacheDir(f.cacheDir))
	}

	c := colly.NewCollector(options...)
	c.SetRequestTimeout(f.timeout)
	c.DetectCharset = true
	// colly truncates bodies over 10MiB without reporting it
	c.MaxBodySize = 0
	c.DisableCookies()

	var (
		body       []byte
		statusCode int
		fetchErr   error
	)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range headers {
			r.Headers.Set(k, v)
		}
		f.logger.Info("visiting", zap.String("url", r.URL.String()))
	})

	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		if fetchErr == nil {
			fetchErr = err
		}
		f.logger.Debug("fetch failed",
			zap.String("url", url),
			zap.Int("status", statusCode),
			zap.Error(fetchErr),
		)
		return "", &NetworkError{URL: url, StatusCode: statusCode, Err: fetchErr}
	}

	f.logger.Debug("fetched",
		zap.String("url", url),
		zap.Int("status", statusCode),
		zap.Int("bytes", len(body)),
	)
	return string(body), nil
}
