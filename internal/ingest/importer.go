// ABOUTME: Importer reads a CSV export into canonical nutrition records.
// ABOUTME: Row failures are logged and skipped; an empty result fails the import.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/harperreed/diet/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFiles bounds ImportFiles fan-out.
const maxConcurrentFiles = 4

// Importer parses CSV diet logs.
type Importer struct {
	logger   *log.Logger
	resolver *Resolver
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for skipped-row diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// WithResolver replaces the default synonym table.
func WithResolver(r *Resolver) Option {
	return func(im *Importer) { im.resolver = r }
}

// NewImporter creates an importer with the default synonym table.
func NewImporter(opts ...Option) *Importer {
	im := &Importer{
		logger:   log.Default(),
		resolver: DefaultResolver(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Result is the outcome of importing one source.
type Result struct {
	Source  string
	Headers HeaderMap
	Records []models.NutritionRecord
	Skipped []*RowParseError
}

// Batch describes the result as an import batch ready to store.
func (r *Result) Batch() *models.ImportBatch {
	return models.NewImportBatch(r.Source, len(r.Records), len(r.Skipped))
}

// ImportFile opens path and imports it. The source name is the file's base name.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImportError{Source: path, Err: err}
	}
	defer f.Close()

	return im.Import(ctx, filepath.Base(path), f)
}

// Import parses a CSV stream. Each row is parsed independently; a row that
// fails is recorded in Result.Skipped and logged, and the import carries on.
// If no row yields a record the import fails with ErrNoValidEntries.
func (im *Importer) Import(ctx context.Context, source string, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyFile
		}
		return nil, &ImportError{Source: source, Err: fmt.Errorf("read header: %w", err)}
	}

	headers := im.resolver.Resolve(header)
	parser := NewParser(headers)
	im.logger.Debug("resolved headers", "source", source, "matched", headers.Len(), "columns", len(header))

	res := &Result{Source: source, Headers: headers}
	for {
		if err := ctx.Err(); err != nil {
			return nil, &ImportError{Source: source, Err: err}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, &ImportError{Source: source, Err: err}
			}
			im.skip(res, perr.StartLine, err)
			continue
		}

		line, _ := reader.FieldPos(0)
		rec, err := parser.ParseRow(row)
		if err != nil {
			im.skip(res, line, err)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if len(res.Records) == 0 {
		return nil, &ImportError{Source: source, Err: ErrNoValidEntries}
	}

	im.logger.Debug("imported", "source", source, "entries", len(res.Records), "skipped", len(res.Skipped))
	return res, nil
}

func (im *Importer) skip(res *Result, line int, err error) {
	rowErr := &RowParseError{Line: line, Err: err}
	res.Skipped = append(res.Skipped, rowErr)
	im.logger.Warn("skipping row", "source", res.Source, "line", line, "err", err)
}

// ImportFiles imports several files concurrently. Results are returned in the
// order of paths; the first ImportError cancels the remaining work.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)
	for i, path := range paths {
		g.Go(func() error {
			res, err := im.ImportFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
