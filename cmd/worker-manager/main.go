// cmd/worker-manager/main.go
package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"career-workers/internal/api"
	"career-workers/internal/catalog"
	"career-workers/internal/common/camunda"
	"career-workers/internal/common/config"
	"career-workers/internal/common/database"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"
	"career-workers/internal/criteria"
	"career-workers/internal/matcher"
	"career-workers/internal/models"
	"career-workers/internal/search"

	// Career Workers (4)
	csg "career-workers/internal/workers/career/compute-skill-gap"
	exc "career-workers/internal/workers/career/export-careers"
	fc "career-workers/internal/workers/career/filter-careers"
	pcc "career-workers/internal/workers/career/parse-career-criteria"

	// Data Access Workers (1)
	sci "career-workers/internal/workers/data-access/search-career-index"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		zapLog = zap.NewExample()
		zapLog.Warn("falling back to example logger", zap.Error(err))
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	log.Info("starting worker manager", map[string]interface{}{
		"environment":   cfg.App.Environment,
		"catalogSource": cfg.Catalog.Source,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("otel meter unavailable, job metrics limited to prometheus counters", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]api.CheckFunc{}

	// --- Catalog ---
	var (
		source catalog.Source
		pg     *database.PostgresClient
	)
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres client failed", zap.Error(err))
		}
		defer pg.Close()
		if err := database.WaitFor(ctx, "PostgreSQL connection", database.DefaultBackoff, log, pg.Ping); err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		checks["postgres"] = pg.Ping

		store, err := catalog.NewPostgresStore(pg.DB, cfg.Catalog.Table)
		if err != nil {
			zapLog.Fatal("catalog store config invalid", zap.Error(err))
		}
		source = store
	default:
		source = catalog.FileSource{Path: cfg.Catalog.Path, Sheet: cfg.Catalog.Sheet}
	}

	var cache *catalog.SnapshotCache
	if cfg.Catalog.CacheTTL > 0 {
		rdb := database.NewRedis(cfg.Database.Redis)
		defer rdb.Close()
		// the cache is an optimization; a dead redis degrades to source loads
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("redis unreachable at startup", map[string]interface{}{"error": err.Error()})
		}
		checks["redis"] = rdb.Ping
		cache = catalog.NewSnapshotCache(rdb.Client, cfg.Catalog.CacheKey, time.Duration(cfg.Catalog.CacheTTL)*time.Second)
	}

	loader := catalog.NewLoader(source, cache, cfg.Catalog.Strict, log)
	var initial *catalog.Catalog
	err = database.WaitFor(ctx, "catalog load", database.DefaultBackoff, log, func(ctx context.Context) error {
		var loadErr error
		initial, loadErr = loader.Load(ctx)
		return loadErr
	})
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	holder := catalog.NewHolder(initial, loader)

	mode, _ := models.ParseSkillMatchMode(cfg.Matcher.SkillMatchMode, models.MatchAll)
	careerMatcher := matcher.New(matcher.WithDefaultMode(mode))
	parser := criteria.NewParser(mode, cfg.Matcher.DefaultPageSize, cfg.Matcher.MaxPageSize)

	// --- Search index (optional) ---
	var index *search.Index
	if cfg.Database.Elasticsearch.GetURL() != "" {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		if err := es.Ping(ctx); err != nil {
			log.Warn("elasticsearch unreachable at startup", map[string]interface{}{"error": err.Error()})
		}
		checks["elasticsearch"] = es.Ping
		index = search.NewIndex(es.Client, cfg.Database.Elasticsearch.Index)
	}

	// --- Zeebe ---
	zb, err := camunda.Connect(ctx, cfg.Camunda, database.DefaultBackoff, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	checks["zeebe"] = zb.HealthCheck

	// --- Workers ---
	var workers []worker.JobWorker
	start := func(taskType string, handler worker.JobHandler) {
		if w := camunda.StartWorker(zb.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}
	timeoutFor := func(taskType string, def time.Duration) time.Duration {
		if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
			return config.GetDuration(ms)
		}
		return def
	}

	{
		wcfg := pcc.LoadConfig()
		wcfg.Timeout = timeoutFor(pcc.TaskType, wcfg.Timeout)
		start(pcc.TaskType, pcc.NewHandler(wcfg, parser, obs, log).Handle)
	}
	{
		wcfg := fc.LoadConfig()
		wcfg.Timeout = timeoutFor(fc.TaskType, wcfg.Timeout)
		wcfg.DefaultPageSize = cfg.Matcher.DefaultPageSize
		wcfg.MaxPageSize = cfg.Matcher.MaxPageSize
		start(fc.TaskType, fc.NewHandler(wcfg, holder, careerMatcher, obs, log).Handle)
	}
	{
		wcfg := csg.LoadConfig()
		wcfg.Timeout = timeoutFor(csg.TaskType, wcfg.Timeout)
		start(csg.TaskType, csg.NewHandler(wcfg, holder, obs, log).Handle)
	}
	{
		wcfg := exc.LoadConfig()
		wcfg.Timeout = timeoutFor(exc.TaskType, wcfg.Timeout)
		start(exc.TaskType, exc.NewHandler(wcfg, holder, careerMatcher, obs, log).Handle)
	}
	if index != nil {
		wcfg := sci.LoadConfig()
		wcfg.Timeout = timeoutFor(sci.TaskType, wcfg.Timeout)
		start(sci.TaskType, sci.NewHandler(wcfg, index, obs, log).Handle)
	} else {
		log.Info("search index not configured, skipping worker", map[string]interface{}{"taskType": sci.TaskType})
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- HTTP: health, metrics, career API ---
	opts := api.Options{
		Catalog:  holder,
		Matcher:  careerMatcher,
		Parser:   parser,
		Reloader: holder,
		Timeout:  config.GetDuration(cfg.Camunda.RequestTimeout),
	}
	if index != nil {
		opts.Searcher = index
	}
	engine := api.NewEngine(api.NewHandler(opts, log), checks, log)
	server := api.NewServer(cfg.HTTP.Address, engine)

	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.HTTP.Address})
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := zb.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if obs != nil {
		if err := obs.Shutdown(shutdownCtx); err != nil {
			log.Error("otel shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info("worker manager stopped gracefully", nil)
}
