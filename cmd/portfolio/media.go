package main

import (
	"context"
	"time"

	"portfolio-scene/internal/asset"
	"portfolio-scene/internal/media"
)

// mediaTimeout bounds fetching a remote video source; the open runs on the main thread.
const mediaTimeout = 10 * time.Second

// mediaOpener resolves remote sources into cacheDir before decoding them.
func mediaOpener(cacheDir string) func(path string, width, height int) (*media.Sequence, error) {
	fetch := asset.Fetcher{CacheDir: cacheDir}
	return func(path string, width, height int) (*media.Sequence, error) {
		ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout)
		defer cancel()
		local, err := fetch.Local(ctx, path)
		if err != nil {
			return nil, err
		}
		return media.Open(local, width, height)
	}
}
