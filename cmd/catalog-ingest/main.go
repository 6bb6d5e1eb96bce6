// Command catalog-ingest bulk-loads supplier product feeds into the catalog.
//
// Feeds are gzip-compressed JSONL files, one product record per line. Feed
// authors spell price keys inconsistently, so records go through the same
// alias-tolerant coercion the storefront uses. Products are identified by
// slug; the first feed listed wins when multiple feeds carry the same slug.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/threadkart/storefront/internal/domain/catalog"
	"github.com/threadkart/storefront/internal/domain/pricing"
	"github.com/threadkart/storefront/internal/storage/postgres"
)

const (
	// Sized for the largest supplier feeds we have seen (~2M lines).
	bloomCapacity = 4_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no feed files given: pass one or more feed.jsonl.gz paths")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Parse all feeds concurrently, one result slot per file.
	slog.Info("parsing feeds", slog.Int("files", len(files)))

	parsed := make([][]catalog.Product, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(parseFeed(gctx, i, f, parsed))
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "parse feeds")
	}

	// Merge in file order: the first feed carrying a slug wins. The bloom
	// filter screens out the common case cheaply; on a hit the exact set
	// decides, so a false positive can never drop a product.
	seenFilter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	seen := make(map[string]struct{})

	var merged []catalog.Product
	dropped := 0
	for i, products := range parsed {
		kept := 0
		for _, p := range products {
			if seenFilter.TestString(p.Slug) {
				if _, ok := seen[p.Slug]; ok {
					dropped++
					continue
				}
			}
			seenFilter.AddString(p.Slug)
			seen[p.Slug] = struct{}{}
			merged = append(merged, p)
			kept++
		}
		slog.Info("feed merged",
			slog.String("file", files[i]),
			slog.Int("kept", kept),
			slog.Int("total", len(products)),
		)
	}

	slog.Info("feeds merged", slog.Int("products", len(merged)), slog.Int("duplicates", dropped))

	if len(merged) == 0 {
		slog.Info("no products to ingest")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)
	for i := range merged {
		if err := repo.UpsertBySlug(ctx, &merged[i]); err != nil {
			return errors.Wrapf(err, "upsert product %q", merged[i].Slug)
		}
		if (i+1)%100 == 0 || i+1 == len(merged) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(merged)))
		}
	}

	return nil
}

// parseFeed streams one gzip JSONL feed into the given result slot. Lines
// that fail to parse or lack a usable slug are skipped with a counter rather
// than failing the whole feed.
func parseFeed(ctx context.Context, idx int, path string, results [][]catalog.Product) func() error {
	return func() error {
		var (
			products []catalog.Product
			lines    uint64
			skipped  uint64
		)

		if err := streamGzFile(ctx, path, func(line []byte) {
			lines++
			if lines%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", path), slog.Uint64("lines", lines))
			}

			p, ok := parseProductLine(line)
			if !ok {
				skipped++
				return
			}
			products = append(products, p)
		}); err != nil {
			return errors.Wrapf(err, "stream feed %s", path)
		}

		slog.Info("feed parsed",
			slog.String("file", path),
			slog.Uint64("lines", lines),
			slog.Uint64("skipped", skipped),
		)

		results[idx] = products
		return nil
	}
}

// parseProductLine decodes one feed record. Price fields go through the
// alias-priority lookup; a record without a slug or a name is unusable.
func parseProductLine(line []byte) (catalog.Product, bool) {
	rec, err := pricing.ParseRecord(line)
	if err != nil {
		return catalog.Product{}, false
	}

	var p catalog.Product
	str := func(key string) string {
		raw, ok := rec[key]
		if !ok {
			return ""
		}
		s, err := jx.DecodeBytes(raw).Str()
		if err != nil {
			return ""
		}
		return s
	}

	p.Slug = strings.TrimSpace(str("slug"))
	p.Name = strings.TrimSpace(str("name"))
	if p.Slug == "" || p.Name == "" {
		return catalog.Product{}, false
	}

	p.Description = str("description")
	p.Category = str("category")
	if raw, ok := rec["bestSeller"]; ok {
		p.BestSeller, _ = jx.DecodeBytes(raw).Bool()
	}
	for _, key := range []string{"sizes", "images"} {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		var vals []string
		d := jx.DecodeBytes(raw)
		if err := d.Arr(func(d *jx.Decoder) error {
			s, err := d.Str()
			if err != nil {
				return err
			}
			vals = append(vals, s)
			return nil
		}); err != nil {
			continue
		}
		if key == "sizes" {
			p.Sizes = vals
		} else {
			p.Images = vals
		}
	}

	if amt, ok := pricing.LookupPriceINR(rec); ok {
		p.PriceINR = amt
	}
	if amt, ok := pricing.LookupPriceUSD(rec); ok {
		p.PriceUSD = amt
	}
	if amt, ok := pricing.LookupMRPINR(rec); ok {
		p.MRPINR = amt
	}
	if amt, ok := pricing.LookupMRPUSD(rec); ok {
		p.MRPUSD = amt
	}

	return p, true
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte)) error {
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
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
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
