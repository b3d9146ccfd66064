package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Publisher uploads the files of an output directory to an ObjectStorage.
type Publisher struct {
	store   ObjectStorage
	workers int
	log     zerolog.Logger
}

// NewPublisher creates a publisher uploading with up to workers concurrent requests.
func NewPublisher(store ObjectStorage, workers int, log zerolog.Logger) *Publisher {
	if workers < 1 {
		workers = 1
	}
	return &Publisher{store: store, workers: workers, log: log.With().Str("component", "publish").Logger()}
}

// Publish uploads every regular file under dir to prefix, preserving relative
// paths. Uploaded objects are returned sorted by key.
func (p *Publisher) Publish(ctx context.Context, dir, prefix string) ([]ObjectInfo, error) {
	files, err := localFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to publish in %s", dir)
	}

	uploaded := make([]ObjectInfo, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, rel := range files {
		g.Go(func() error {
			local := filepath.Join(dir, rel)
			key := ObjectKey(prefix, rel)

			info, err := os.Stat(local)
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", local, err)
			}
			if err := p.store.UploadFile(gctx, key, local, ContentType(local)); err != nil {
				return err
			}

			p.log.Debug().Str("key", key).Int64("bytes", info.Size()).Msg("uploaded")
			uploaded[i] = ObjectInfo{Key: key, Size: info.Size()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(uploaded, func(i, j int) bool { return uploaded[i].Key < uploaded[j].Key })
	p.log.Info().Int("objects", len(uploaded)).Str("prefix", prefix).Msg("publish complete")
	return uploaded, nil
}

// Verify lists prefix and checks every uploaded object is present with its size.
func (p *Publisher) Verify(ctx context.Context, prefix string, uploaded []ObjectInfo) error {
	remote, err := p.store.ListObjects(ctx, prefix)
	if err != nil {
		return err
	}
	sizes := make(map[string]int64, len(remote))
	for _, o := range remote {
		sizes[o.Key] = o.Size
	}
	for _, o := range uploaded {
		size, ok := sizes[o.Key]
		if !ok {
			// drive folders hold flattened names
			size, ok = sizes[fileName(o.Key)]
		}
		if !ok {
			return fmt.Errorf("object %s missing after upload", o.Key)
		}
		if size != o.Size {
			return fmt.Errorf("object %s has %d bytes, expected %d", o.Key, size, o.Size)
		}
	}
	return nil
}

// localFiles returns the slash-separated relative paths of regular files under dir.
func localFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
