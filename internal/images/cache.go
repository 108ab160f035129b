package images

import (
	"net/http"
	"path/filepath"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/peterbourgon/diskv"
)

// DefaultCacheSize caps the on-disk image cache.
const DefaultCacheSize uint64 = 256 << 20

// NewCachedClient returns an HTTP client that honors caching headers. With
// an empty dir responses are cached in memory only.
func NewCachedClient(dir string, maxSize uint64) *http.Client {
	if dir == "" {
		return httpcache.NewMemoryCacheTransport().Client()
	}
	if maxSize == 0 {
		maxSize = DefaultCacheSize
	}
	flatTransform := func(s string) []string { return []string{} }
	d := diskv.New(diskv.Options{
		BasePath:     filepath.Join(dir, "images"),
		Transform:    flatTransform,
		CacheSizeMax: maxSize,
	})
	transport := &httpcache.Transport{
		Transport:           http.DefaultTransport,
		Cache:               diskcache.NewWithDiskv(d),
		MarkCachedResponses: true,
	}
	return transport.Client()
}

// FromCache reports whether resp was served from the cache.
func FromCache(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(httpcache.XFromCache) == "1"
}
