package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 30 * time.Second
	// DefaultMaxSize limits documents to 64 MiB.
	DefaultMaxSize = 64 << 20
	maxRedirects   = 5

	accept = "text/turtle, application/n-triples;q=0.9, application/rdf+xml;q=0.8, */*;q=0.1"
)

var errTooLarge = errors.New("document too large")

type Config struct {
	// Timeout of a single fetch, redirects included.
	Timeout time.Duration
	// MaxSize of a document in bytes.
	MaxSize   int64
	UserAgent string
	Rules     Rules
	// Client replaces the default HTTP client. Its timeout and redirect policy are kept.
	Client *http.Client
	Logger *zerolog.Logger
}

// HTTPFetcher fetches http(s) sources over the network and file sources
// from the local file system.
type HTTPFetcher struct {
	client    *http.Client
	maxSize   int64
	userAgent string
	rules     Rules
	logger    *zerolog.Logger
}

func NewHTTPFetcher(config Config) *HTTPFetcher {
	f := &HTTPFetcher{
		maxSize:   config.MaxSize,
		userAgent: config.UserAgent,
		rules:     config.Rules,
		logger:    config.Logger,
	}
	if f.maxSize <= 0 {
		f.maxSize = DefaultMaxSize
	}
	if f.userAgent == "" {
		f.userAgent = "graphcache"
	}
	if f.logger == nil {
		f.logger = &log.Logger
	}
	if config.Client != nil {
		f.client = config.Client
	} else {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		f.client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				return nil
			},
		}
	}
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, uri string, validators http.Header) (*Response, error) {
	logger := f.logger.With().Str("source", uri).Logger()

	u, err := url.Parse(uri)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	var res *Response
	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		res, err = f.fetchHTTP(ctx, u, validators, &logger)
	case isLocalScheme(u.Scheme):
		res, err = f.fetchFile(ctx, u, validators)
	default:
		err = &FetchError{URI: uri, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if err != nil {
		return nil, err
	}
	if !res.NotModified {
		f.rules.Apply(uri, res.Header, &logger)
		if contentType := res.Header.Get("Content-Type"); contentType != "" {
			res.Representation.ContentType = contentType
		}
	}
	logger.Trace().Bool("notModified", res.NotModified).Msg("Fetched source")
	return res, nil
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, u *url.URL, validators http.Header, logger *zerolog.Logger) (*Response, error) {
	uri := u.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	for name, values := range validators {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", f.userAgent)

	logger.Trace().Msgf("Requesting source with validators %v", validators)
	res, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	defer res.Body.Close()
	receivedAt := time.Now()

	if res.StatusCode == http.StatusNotModified {
		return &Response{NotModified: true, Header: res.Header, ReceivedAt: receivedAt}, nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{URI: uri, StatusCode: res.StatusCode, Err: errors.New(http.StatusText(res.StatusCode))}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, f.maxSize+1))
	if err != nil {
		return nil, &FetchError{URI: uri, StatusCode: res.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxSize {
		return nil, &FetchError{URI: uri, StatusCode: res.StatusCode, Err: fmt.Errorf("%w (exceeds %d bytes)", errTooLarge, f.maxSize)}
	}

	return &Response{
		Header:     res.Header,
		ReceivedAt: receivedAt,
		Representation: &Representation{
			URI:         res.Request.URL.String(),
			ContentType: res.Header.Get("Content-Type"),
			Body:        body,
		},
	}, nil
}
