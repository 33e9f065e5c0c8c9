// Package dataset stages geometry files from a blob store into a local
// cache directory so the format codecs, which operate on local paths, can
// decode them. Fetches run with bounded concurrency and optional download
// rate limiting.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/geoforge/geoio"
	"github.com/geoforge/geoio/blobstore"
	"github.com/geoforge/geoio/camera"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/fsutil"
)

const copyChunk = 64 * 1024

// Fetcher pulls blobs from a Store into cacheDir. A blob already present
// in the cache is not fetched again; delete the cache file to force a
// refresh.
type Fetcher struct {
	store       blobstore.Store
	cacheDir    string
	concurrency int
	limiter     *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithConcurrency bounds the number of parallel fetches in FetchAll.
// Default 4.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithRateLimit caps aggregate download throughput in bytes per second.
// Zero means unlimited.
func WithRateLimit(bytesPerSecond int) Option {
	return func(f *Fetcher) {
		if bytesPerSecond > 0 {
			burst := bytesPerSecond
			if burst < copyChunk {
				burst = copyChunk
			}
			f.limiter = rate.NewLimiter(rate.Limit(bytesPerSecond), burst)
		}
	}
}

// NewFetcher creates a Fetcher caching into cacheDir.
func NewFetcher(store blobstore.Store, cacheDir string, opts ...Option) *Fetcher {
	f := &Fetcher{store: store, cacheDir: cacheDir, concurrency: 4}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) cachePath(name string) string {
	return filepath.Join(f.cacheDir, filepath.FromSlash(name))
}

// Fetch ensures name is present in the cache and returns its local path.
func (f *Fetcher) Fetch(ctx context.Context, name string) (string, error) {
	local := f.cachePath(name)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		return "", err
	}

	src, err := f.store.Open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	defer src.Close()

	err = fsutil.WriteFileAtomic(local, func(w io.Writer) error {
		return f.copy(ctx, w, src)
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return local, nil
}

func (f *Fetcher) copy(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, copyChunk)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if f.limiter != nil {
				if werr := f.limiter.WaitN(ctx, n); werr != nil {
					return werr
				}
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// FetchAll fetches all names with bounded concurrency and returns their
// local paths in input order. The first failure cancels the remaining
// fetches.
func (f *Fetcher) FetchAll(ctx context.Context, names []string) ([]string, error) {
	paths := make([]string, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			p, err := f.Fetch(ctx, name)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ReadPointCloud fetches name and decodes it as a point cloud.
func (f *Fetcher) ReadPointCloud(ctx context.Context, name string, opts ...geoio.ReadOption) (*geometry.PointCloud, error) {
	local, err := f.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return geoio.ReadPointCloud(local, opts...)
}

// ReadTriangleMesh fetches name and decodes it as a triangle mesh.
func (f *Fetcher) ReadTriangleMesh(ctx context.Context, name string, opts ...geoio.ReadOption) (*geometry.TriangleMesh, error) {
	local, err := f.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return geoio.ReadTriangleMesh(local, opts...)
}

// ReadImage fetches name and decodes it as an image.
func (f *Fetcher) ReadImage(ctx context.Context, name string, opts ...geoio.ReadOption) (*geometry.Image, error) {
	local, err := f.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return geoio.ReadImage(local, opts...)
}

// ReadPinholeCameraTrajectory fetches name and decodes it as a camera
// trajectory.
func (f *Fetcher) ReadPinholeCameraTrajectory(ctx context.Context, name string, opts ...geoio.ReadOption) (*camera.PinholeCameraTrajectory, error) {
	local, err := f.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return geoio.ReadPinholeCameraTrajectory(local, opts...)
}
