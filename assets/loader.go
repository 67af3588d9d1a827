// Package assets fetches the images a report needs (logo, cover
// background and item photographs) from files, HTTP(S), S3 or an
// embedded filesystem. Every fetch is bounded by a timeout and a failure
// only ever turns into a missing asset, never into a failed report.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 20 * time.Second

	// maxAssetSize caps how much of a response body is read.
	maxAssetSize       = 32 << 20
	defaultParallelism = 8
)

// AssetLoadError reports why one asset could not be loaded.
type AssetLoadError struct {
	Ref string
	Err error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("assets: load %s: %v", e.Ref, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

var errNoFS = errors.New("no embedded filesystem configured")

// staticCache holds branding assets for the life of the process. Item
// photographs are never cached.
var staticCache sync.Map

// Request names one asset to fetch. Static assets (logo, background) are
// shared between reports and cached after the first successful load.
type Request struct {
	Ref    string
	Label  string
	Static bool
}

// Loader resolves asset references. It is safe for concurrent use.
type Loader struct {
	timeout  time.Duration
	logger   *zap.Logger
	http     *http.Client
	s3       ObjectGetter
	embedded fs.FS
	baseDir  string
	limit    int
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout sets the per-asset timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed fetches.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithHTTPClient replaces the client used for http and https refs.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.http = c }
}

// WithS3 enables s3://bucket/key refs.
func WithS3(c ObjectGetter) Option {
	return func(l *Loader) { l.s3 = c }
}

// WithFS serves embed:name refs from fsys.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) { l.embedded = fsys }
}

// WithBaseDir resolves relative file paths against dir.
func WithBaseDir(dir string) Option {
	return func(l *Loader) { l.baseDir = dir }
}

// WithParallelism bounds the number of concurrent fetches in LoadAll.
func WithParallelism(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

// NewLoader returns a Loader with a 20s timeout and a no-op logger.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		http:    http.DefaultClient,
		limit:   defaultParallelism,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches one reference within the loader timeout. Failures are
// returned as *AssetLoadError.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	data, err := l.fetch(ctx, ref)
	if err == nil && len(data) == 0 {
		err = errors.New("empty asset")
	}
	if err != nil {
		return nil, &AssetLoadError{Ref: ref, Err: err}
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	scheme, rest, ok := strings.Cut(ref, ":")
	if !ok || len(scheme) == 1 { // C:\ style paths
		return l.readFile(ctx, ref)
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
		return l.fetchHTTP(ctx, ref)
	case "s3":
		return l.fetchS3(ctx, ref)
	case "embed":
		if l.embedded == nil {
			return nil, errNoFS
		}
		return fs.ReadFile(l.embedded, strings.TrimPrefix(rest, "/"))
	case "file":
		return l.readFile(ctx, strings.TrimPrefix(rest, "//"))
	default:
		return nil, fmt.Errorf("unsupported scheme %q", scheme)
	}
}

// cacheKey resolves relative file refs against the base directory, so
// loaders rooted in different directories never share a cache entry.
func (l *Loader) cacheKey(ref string) string {
	path := ref
	scheme, rest, ok := strings.Cut(ref, ":")
	if ok && len(scheme) > 1 {
		if !strings.EqualFold(scheme, "file") {
			return ref
		}
		path = strings.TrimPrefix(rest, "//")
	}
	if filepath.IsAbs(path) || l.baseDir == "" {
		return ref
	}
	return "file:" + filepath.Join(l.baseDir, path)
}

func (l *Loader) readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	return os.ReadFile(path)
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
}

// LoadAll fetches every request concurrently and collects the successes.
// Failed assets are logged and left out of the bundle, so the layout
// draws its placeholder for them. LoadAll itself never fails.
func (l *Loader) LoadAll(ctx context.Context, reqs ...Request) *Bundle {
	b := &Bundle{data: make(map[string][]byte, len(reqs))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		if req.Ref == "" || seen[req.Ref] {
			continue
		}
		seen[req.Ref] = true
		g.Go(func() error {
			data, err := l.loadCached(gctx, req)
			if err != nil {
				l.logger.Warn("asset unavailable, placeholder will be drawn",
					zap.String("item", req.Label),
					zap.String("ref", req.Ref),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			b.data[req.Ref] = data
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return b
}

func (l *Loader) loadCached(ctx context.Context, req Request) ([]byte, error) {
	key := l.cacheKey(req.Ref)
	if req.Static {
		if v, ok := staticCache.Load(key); ok {
			return v.([]byte), nil
		}
	}
	data, err := l.Load(ctx, req.Ref)
	if err != nil {
		return nil, err
	}
	if req.Static {
		v, _ := staticCache.LoadOrStore(key, data)
		data = v.([]byte)
	}
	return data, nil
}

// Bundle is the outcome of an asset phase. It implements
// layout.AssetSource.
type Bundle struct {
	data map[string][]byte
}

// Lookup returns the bytes for ref, or false when it failed to load.
func (b *Bundle) Lookup(ref string) ([]byte, bool) {
	if b == nil {
		return nil, false
	}
	data, ok := b.data[ref]
	return data, ok
}

// Len reports how many assets loaded successfully.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}
