package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// WorkbookFile is the name of the combined workbook.
const WorkbookFile = "retail_model.xlsx"

// Options configures a Writer.
type Options struct {
	Dir       string
	Workers   int  // concurrent table writers
	WriteXLSX bool // also write WorkbookFile
}

// File describes one written output file.
type File struct {
	Table string `json:"table,omitempty"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
	Bytes int64  `json:"bytes"`
}

// Writer writes tables into an output directory.
type Writer struct {
	opts Options
	log  zerolog.Logger
}

// NewWriter creates a writer for opts.
func NewWriter(opts Options, log zerolog.Logger) *Writer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Writer{opts: opts, log: log.With().Str("component", "export").Logger()}
}

// WriteAll writes one CSV per table concurrently, then the workbook when enabled.
// Files are returned in table order.
func (w *Writer) WriteAll(ctx context.Context, tables []Table) ([]File, error) {
	if err := os.MkdirAll(w.opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := make([]File, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Workers)

	for i, t := range tables {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			path := filepath.Join(w.opts.Dir, t.FileName())
			if err := WriteCSV(path, t); err != nil {
				return err
			}

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}
			files[i] = File{Table: t.Name, Path: path, Rows: len(t.Rows), Bytes: info.Size()}

			w.log.Debug().
				Str("table", t.Name).
				Int("rows", len(t.Rows)).
				Dur("took", time.Since(start)).
				Msg("table written")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if w.opts.WriteXLSX {
		path := filepath.Join(w.opts.Dir, WorkbookFile)
		if err := WriteWorkbook(path, tables, w.log); err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		files = append(files, File{Path: path, Bytes: info.Size()})
	}

	w.log.Info().
		Str("dir", w.opts.Dir).
		Int("files", len(files)).
		Msg("export complete")
	return files, nil
}
