package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/always-cache/graphcache/rfc9111"
)

// fileCacheControl makes file graphs revalidate on every load. Validation
// only compares modification times, so it costs a stat.
const fileCacheControl = "max-age=0"

// fetchFile serves file URIs and bare paths. The modification time of the
// file stands in for Last-Modified.
func (f *HTTPFetcher) fetchFile(ctx context.Context, u *url.URL, validators http.Header) (*Response, error) {
	uri := u.String()
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	path := u.Path
	if u.Scheme == "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, &FetchError{URI: uri, Err: err}
	}
	if info.IsDir() {
		return nil, &FetchError{URI: uri, Err: fmt.Errorf("%s is a directory", path)}
	}
	receivedAt := time.Now()
	modified := info.ModTime().UTC().Truncate(time.Second)

	header := make(http.Header)
	header.Set(rfc9111.FieldLastModified, rfc9111.ToHttpDate(modified))
	header.Set(rfc9111.FieldCacheControl, fileCacheControl)

	if since := validators.Get(rfc9111.FieldIfModifiedSince); since != "" {
		if sinceTime, err := rfc9111.HttpDate(since); err == nil && !modified.After(sinceTime) {
			return &Response{NotModified: true, Header: header, ReceivedAt: receivedAt}, nil
		}
	}

	if info.Size() > f.maxSize {
		return nil, &FetchError{URI: uri, Err: fmt.Errorf("%w (exceeds %d bytes)", errTooLarge, f.maxSize)}
	}
	body, err := io.ReadAll(io.LimitReader(file, f.maxSize+1))
	if err != nil {
		return nil, &FetchError{URI: uri, Err: fmt.Errorf("read file: %w", err)}
	}
	if int64(len(body)) > f.maxSize {
		return nil, &FetchError{URI: uri, Err: fmt.Errorf("%w (exceeds %d bytes)", errTooLarge, f.maxSize)}
	}

	return &Response{
		Header:     header,
		ReceivedAt: receivedAt,
		Representation: &Representation{
			URI:  (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(),
			Body: body,
		},
	}, nil
}
