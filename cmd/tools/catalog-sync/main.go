// cmd/tools/catalog-sync/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career-workers/internal/catalog"
	"career-workers/internal/common/config"
	"career-workers/internal/common/database"
	"career-workers/internal/common/logger"
	"career-workers/internal/models"
	"career-workers/internal/search"

	"golang.org/x/sync/errgroup"
)

type options struct {
	configPath   string
	file         string
	sheet        string
	toPostgres   bool
	toIndex      bool
	recreate     bool
	invalidate   bool
	dryRun       bool
	strict       bool
	startTimeout time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Config file (defaults to configs/config.yaml lookup)")
	flag.StringVar(&opts.file, "file", "", "Catalog spreadsheet (.xlsx or .csv); defaults to catalog.path")
	flag.StringVar(&opts.sheet, "sheet", "", "Worksheet name; defaults to catalog.sheet or the first sheet")
	flag.BoolVar(&opts.toPostgres, "postgres", true, "Upsert records into the catalog table")
	flag.BoolVar(&opts.toIndex, "elasticsearch", true, "Index records into the career search index")
	flag.BoolVar(&opts.recreate, "recreate-index", false, "Drop and recreate the search index first")
	flag.BoolVar(&opts.invalidate, "invalidate-cache", true, "Drop the Redis catalog snapshot after writing")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Parse the file and report, without writing anywhere")
	flag.BoolVar(&opts.strict, "strict", false, "Abort when any row is malformed")
	flag.DurationVar(&opts.startTimeout, "timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		WithFields(map[string]interface{}{"tool": "catalog-sync"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.startTimeout)
	defer cancel()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Error("catalog sync failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, log logger.Logger) error {
	records, err := readCatalog(ctx, cfg, opts, log)
	if err != nil {
		return err
	}
	if opts.dryRun {
		log.Info("dry run, nothing written", map[string]interface{}{
			"records": len(records),
			"streams": catalog.New(records).Streams(),
		})
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.toPostgres {
		g.Go(func() error { return syncPostgres(gctx, cfg, records, log) })
	}
	if opts.toIndex {
		g.Go(func() error { return syncIndex(gctx, cfg, records, opts.recreate, log) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.invalidate && cfg.Database.Redis.Address != "" {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		cache := catalog.NewSnapshotCache(rdb.Client, cfg.Catalog.CacheKey, 0)
		if err := cache.Invalidate(ctx); err != nil {
			log.Warn("snapshot invalidate failed, workers may serve the old catalog until it expires", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			log.Info("catalog snapshot invalidated", map[string]interface{}{"key": cfg.Catalog.CacheKey})
		}
	}

	log.Info("catalog sync finished", map[string]interface{}{"records": len(records)})
	return nil
}

func readCatalog(ctx context.Context, cfg *config.Config, opts options, log logger.Logger) ([]models.CareerRecord, error) {
	path := opts.file
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no catalog file: pass -file or set catalog.path")
	}
	sheet := opts.sheet
	if sheet == "" {
		sheet = cfg.Catalog.Sheet
	}

	batch, err := catalog.FileSource{Path: path, Sheet: sheet}.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for _, rej := range batch.Rejected {
		log.Warn("malformed catalog record", map[string]interface{}{"details": rej.Details})
	}
	if opts.strict && len(batch.Rejected) > 0 {
		return nil, batch.Rejected[0]
	}
	if len(batch.Records) == 0 {
		return nil, fmt.Errorf("%s has no valid records", path)
	}

	log.Info("catalog file read", map[string]interface{}{
		"file":     path,
		"records":  len(batch.Records),
		"rejected": len(batch.Rejected),
	})
	return batch.Records, nil
}

func syncPostgres(ctx context.Context, cfg *config.Config, records []models.CareerRecord, log logger.Logger) error {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := database.WaitFor(ctx, "PostgreSQL connection", database.DefaultBackoff, log, pg.Ping); err != nil {
		return err
	}

	store, err := catalog.NewPostgresStore(pg.DB, cfg.Catalog.Table)
	if err != nil {
		return err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	n, err := store.Upsert(ctx, records)
	if err != nil {
		return err
	}

	log.Info("catalog table synced", map[string]interface{}{"table": cfg.Catalog.Table, "rows": n})
	return nil
}

func syncIndex(ctx context.Context, cfg *config.Config, records []models.CareerRecord, recreate bool, log logger.Logger) error {
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}
	if err := database.WaitFor(ctx, "Elasticsearch connection", database.DefaultBackoff, log, es.Ping); err != nil {
		return err
	}

	ix := search.NewIndex(es.Client, cfg.Database.Elasticsearch.Index)
	if recreate {
		if err := ix.Drop(ctx); err != nil {
			return err
		}
	}
	if err := ix.Ensure(ctx); err != nil {
		return err
	}
	n, err := ix.IndexRecords(ctx, records)
	if err != nil {
		return err
	}

	log.Info("search index synced", map[string]interface{}{"index": ix.Name(), "documents": n})
	return nil
}
