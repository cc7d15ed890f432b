// Command catalog-ingest loads supplier catalog dumps into the store. Feeds
// are gzip-compressed JSONL files, one product per line. Files are parsed
// concurrently; rows failing validation are skipped and counted. A bloom
// filter drops ids already ingested in this run, so overlapping daily dumps
// do not thrash the database (best effort: a false positive skips a row, it
// never corrupts one).
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/campusthreads/merch-store/internal/domain/product"
	"github.com/campusthreads/merch-store/internal/repository"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 10_000
)

// fileResult holds the parse outcome for a single feed file.
type fileResult struct {
	products []product.Product
	skipped  int
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "feeds", "directory containing *.jsonl.gz catalog feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(feedDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz feeds found in %s", feedDir)
	}

	slog.Info("parsing feeds", slog.Int("files", len(files)))

	validator := product.NewValidator(product.DefaultCategories(), product.DefaultPalette())
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(parseFeedFile(gctx, i, f, validator, results))
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "parse feeds")
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return writeProducts(ctx, repository.NewProductRepository(pool), files, results)
}

func parseFeedFile(
	ctx context.Context,
	idx int,
	path string,
	validator product.Validator,
	results []fileResult,
) func() error {
	return func() error {
		var res fileResult
		var lines int

		err := streamGzLines(ctx, path, func(line []byte) {
			lines++
			if lines%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", filepath.Base(path)), slog.Int("lines", lines))
			}

			p, err := parseProduct(line)
			if err == nil {
				err = validator.Validate(p)
			}
			if err != nil || p.ID == "" || !product.ValidID(p.ID) {
				res.skipped++
				return
			}
			res.products = append(res.products, p)
		})
		if err != nil {
			return errors.Wrapf(err, "parse feed %s", path)
		}

		slog.Info("parse complete",
			slog.String("file", filepath.Base(path)),
			slog.Int("products", len(res.products)),
			slog.Int("skipped", res.skipped),
		)

		results[idx] = res
		return nil
	}
}

// parseProduct decodes one JSONL row. Unknown keys are skipped so supplier
// feeds can carry extra fields.
func parseProduct(data []byte) (product.Product, error) {
	p := product.Product{InStock: true}

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "title":
			v, err := d.Str()
			p.Title = v
			return err
		case "category":
			v, err := d.Str()
			p.Category = product.Category(v)
			return err
		case "description":
			v, err := d.Str()
			p.Description = v
			return err
		case "base_price":
			v, err := d.Float64()
			if err != nil {
				return err
			}
			p.BasePrice = decimal.NewFromFloat(v)
			return nil
		case "colors":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				p.Colors = append(p.Colors, product.Color(v))
				return err
			})
		case "images":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				p.Images = append(p.Images, v)
				return err
			})
		case "in_stock":
			v, err := d.Bool()
			p.InStock = v
			return err
		default:
			return d.Skip()
		}
	})
	return p, err
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeProducts upserts parsed products in feed order, deduplicating ids
// across files: the first file containing an id wins.
func writeProducts(
	ctx context.Context,
	repo *repository.ProductRepository,
	files []string,
	results []fileResult,
) error {
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	var written, duplicates int
	for i, res := range results {
		for _, p := range res.products {
			if seen.TestOrAddString(p.ID) {
				duplicates++
				continue
			}
			if err := repo.Upsert(ctx, p); err != nil {
				return errors.Wrapf(err, "upsert product %s from %s", p.ID, files[i])
			}
			written++
		}
	}

	slog.Info("catalog written",
		slog.Int("products", written),
		slog.Int("duplicates", duplicates),
	)

	return nil
}
