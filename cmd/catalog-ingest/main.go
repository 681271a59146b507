// Command catalog-ingest merges gzipped supplier catalog dumps into a single
// catalog.json seed file. Dumps are newline-delimited JSON records. An item is
// accepted when it appears in at least two dumps (a single dump is trusted
// as-is); the lowest ID and price seen win.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

type item struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

func main() {
	var (
		dataDir string
		out     string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing catalog*.gz dump files")
	flag.StringVar(&out, "out", "db/catalog.json", "path of the merged catalog seed")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, out); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, out string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "catalog*.gz"))
	if err != nil {
		return errors.Wrap(err, "glob dump files")
	}
	if len(files) == 0 {
		return errors.Errorf("no catalog*.gz files in %s", dataDir)
	}
	sort.Strings(files)

	slog.Info("pass 1: building bloom filters", slog.Int("files", len(files)))
	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	slog.Info("pass 2: merging dumps")
	merged, err := mergeDumps(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "merge dumps")
	}

	slog.Info("items merged", slog.Int("count", len(merged)))

	if err := writeCatalog(out, merged); err != nil {
		return errors.Wrap(err, "write catalog")
	}
	return nil
}

// buildBloomFilters scans every dump concurrently and returns one filter of
// item names per file.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
			err := scanDump(ctx, path, func(it item) {
				filter.AddString(it.Name)
			})
			if err != nil {
				return errors.Wrapf(err, "scan %s", path)
			}
			filters[i] = filter
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filters, nil
}

// mergeDumps keeps items whose name is present in at least two dumps. With a
// single dump everything is kept.
func mergeDumps(ctx context.Context, files []string, filters []*bloom.BloomFilter) (map[string]item, error) {
	merged := make(map[string]item)
	for i, path := range files {
		err := scanDump(ctx, path, func(it item) {
			if len(files) > 1 && !inOtherDump(filters, i, it.Name) {
				return
			}
			prev, ok := merged[it.Name]
			if !ok {
				merged[it.Name] = it
				return
			}
			if it.ID < prev.ID {
				prev.ID = it.ID
			}
			if it.Price.LessThan(prev.Price) {
				prev.Price = it.Price
			}
			merged[it.Name] = prev
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scan %s", path)
		}
	}
	return merged, nil
}

func inOtherDump(filters []*bloom.BloomFilter, self int, name string) bool {
	for i, f := range filters {
		if i == self {
			continue
		}
		if f.TestString(name) {
			return true
		}
	}
	return false
}

// scanDump streams one gzipped dump, calling fn for every valid record.
// Records that fail to parse are counted and skipped.
func scanDump(ctx context.Context, path string, fn func(item)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, "gzip reader")
	}
	defer gz.Close()

	var lines, skipped int
	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for sc.Scan() {
		if lines%progressEvery == 0 && lines > 0 {
			slog.Info("scanning", slog.String("file", path), slog.Int("lines", lines))
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		lines++

		it, err := parseRecord(sc.Bytes())
		if err != nil {
			skipped++
			continue
		}
		fn(it)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "scan")
	}
	if skipped > 0 {
		slog.Warn("skipped malformed records", slog.String("file", path), slog.Int("count", skipped))
	}
	return nil
}

func parseRecord(line []byte) (item, error) {
	var it item
	d := jx.DecodeBytes(line)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			it.ID = v
			return err
		case "name":
			v, err := d.Str()
			it.Name = v
			return err
		case "price":
			n, err := d.Num()
			if err != nil {
				return err
			}
			it.Price, err = decimal.NewFromString(string(n))
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return it, err
	}
	if it.ID <= 0 || it.Name == "" || it.Price.IsNegative() {
		return it, errors.New("incomplete record")
	}
	return it, nil
}

// writeCatalog emits the merged items as a JSON array sorted by ID.
func writeCatalog(path string, merged map[string]item) error {
	items := make([]item, 0, len(merged))
	for _, it := range merged {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	e := &jx.Encoder{}
	e.SetIdent(2)
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Int64(it.ID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("price")
		e.Num(jx.Num(it.Price.String()))
		e.ObjEnd()
	}
	e.ArrEnd()

	return os.WriteFile(path, e.Bytes(), 0o644)
}
