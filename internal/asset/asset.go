package asset

import (
	"context"
	"fmt"
	"os"

	"portfolio-scene/internal/download"
	"portfolio-scene/internal/scenegraph"
)

// Loader fetches and parses a scene-graph asset.
type Loader interface {
	Load(ctx context.Context, path string) (*scenegraph.Asset, error)
}

// LoadError reports an asset that could not be fetched or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("asset: load %s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// Result is the outcome of an asynchronous load.
type Result struct {
	Asset *scenegraph.Asset
	Err   error
}

// LoadAsync runs l.Load on its own goroutine. The channel receives exactly
// one Result and is then closed. Errors are always *LoadError.
func LoadAsync(ctx context.Context, l Loader, path string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		a, err := l.Load(ctx, path)
		if err != nil {
			if _, ok := err.(*LoadError); !ok {
				err = &LoadError{Path: path, Err: err}
			}
			ch <- Result{Err: err}
			return
		}
		ch <- Result{Asset: a}
	}()
	return ch
}

// Fetcher resolves a possibly remote path to a local file.
type Fetcher struct {
	CacheDir string
}

// Local returns path unchanged when it is on disk, or downloads it into the
// cache directory first.
func (f Fetcher) Local(ctx context.Context, path string) (string, error) {
	if !download.IsRemote(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	dir := f.CacheDir
	if dir == "" {
		dir = os.TempDir()
	}
	return download.Download(ctx, path, dir)
}
