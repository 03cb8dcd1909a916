// Command apiserver runs the LexIntel HTTP API: document and version
// management, the ingestion pipeline, version comparison, conflict
// scanning, and clause search.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hukumtek/LexIntel/internal/analysis/conflict"
	"github.com/hukumtek/LexIntel/internal/analysis/diffengine"
	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
	"github.com/hukumtek/LexIntel/internal/application/comparison"
	"github.com/hukumtek/LexIntel/internal/application/conflictscan"
	"github.com/hukumtek/LexIntel/internal/application/ingestion"
	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/infrastructure/database/postgres"
	"github.com/hukumtek/LexIntel/internal/infrastructure/database/postgres/repositories"
	"github.com/hukumtek/LexIntel/internal/infrastructure/database/redis"
	"github.com/hukumtek/LexIntel/internal/infrastructure/embedding"
	"github.com/hukumtek/LexIntel/internal/infrastructure/messaging/kafka"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/prometheus"
	"github.com/hukumtek/LexIntel/internal/infrastructure/search/milvus"
	"github.com/hukumtek/LexIntel/internal/infrastructure/search/opensearch"
	"github.com/hukumtek/LexIntel/internal/infrastructure/storage/minio"
	httpserver "github.com/hukumtek/LexIntel/internal/interfaces/http"
	"github.com/hukumtek/LexIntel/internal/interfaces/http/handlers"
	"github.com/hukumtek/LexIntel/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/lexintel.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	migrate := flag.Bool("migrate", false, "apply pending database migrations before serving")
	flag.Parse()

	if err := run(*configPath, *port, *migrate); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int, migrate bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	logger, err := logging.NewLogger(logging.LogConfig(cfg.Log))
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger.Info("starting lexintel api server", logging.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrate {
		if cfg.Database.MigrationPath == "" {
			return fmt.Errorf("migrations requested but database.migration_path is not set")
		}
		if err := postgres.RunMigrations(postgres.BuildDSN(cfg.Database), cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	// Storage and messaging backends.
	pg, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pg.Close()

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, cfg.Redis, logger)

	milvusClient, err := milvus.NewClient(ctx, cfg.Milvus, logger)
	if err != nil {
		return fmt.Errorf("milvus: %w", err)
	}
	defer milvusClient.Close()
	corpus := milvus.NewCorpusStore(milvusClient, cfg.Milvus, logger)
	if err := corpus.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("milvus collection: %w", err)
	}

	osClient, err := opensearch.NewClient(cfg.OpenSearch, logger)
	if err != nil {
		return fmt.Errorf("opensearch: %w", err)
	}
	clauseIndex := opensearch.NewClauseIndex(osClient, cfg.OpenSearch, logger)
	if err := clauseIndex.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("opensearch index: %w", err)
	}

	minioClient, err := minio.NewClient(cfg.MinIO, logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	if err := minioClient.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("minio bucket: %w", err)
	}
	pageStore := minio.NewPageStore(minioClient, logger)

	producer, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	defer producer.Close()

	// Repositories and metrics.
	pool := pg.Pool()
	documentRepo := repositories.NewDocumentRepository(pool, logger)
	clauseRepo := repositories.NewClauseRepository(pool, logger)
	analysisRepo := repositories.NewAnalysisRepository(pool, logger)

	collector, err := prometheus.NewCollector(prometheus.CollectorConfig{
		Namespace:            "lexintel",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	// Analysis core and application services.
	seg := segmenter.New(segmenterConfig(cfg.Analysis), logger)
	engine := diffengine.New(engineOptions(cfg.Analysis), logger)
	detector := conflict.New(logger)
	embedder := embedding.NewClient(cfg.Embedding, logger)

	var ownCorpus ingestion.CorpusIndexer
	if cfg.Analysis.IndexOwnClauses {
		ownCorpus = corpus
	}
	ingestSvc, err := ingestion.NewService(ingestion.Deps{
		Documents: documentRepo,
		Clauses:   clauseRepo,
		Pages:     pageStore,
		Segmenter: seg,
		Embedder:  embedder,
		Locks:     &redisLockManager{client: redisClient},
		Corpus:    ownCorpus,
		TextIndex: clauseIndex,
		Events:    producer,
		Metrics:   metrics,
	}, logger)
	if err != nil {
		return err
	}

	compareSvc, err := comparison.NewService(comparison.Deps{
		Documents: documentRepo,
		Clauses:   clauseRepo,
		Records:   analysisRepo,
		Engine:    engine,
		Cache:     cache,
		Events:    producer,
		Metrics:   metrics,
	}, logger)
	if err != nil {
		return err
	}

	scanSvc, err := conflictscan.NewService(conflictscan.Deps{
		Documents: documentRepo,
		Clauses:   clauseRepo,
		Records:   analysisRepo,
		Detector:  detector,
		Corpus:    corpus,
		Cache:     cache,
		Events:    producer,
		Metrics:   metrics,
		Defaults: conflict.Options{
			Threshold: cfg.Analysis.ConflictThreshold,
			TopK:      cfg.Analysis.ConflictTopK,
		},
	}, logger)
	if err != nil {
		return err
	}

	// HTTP surface.
	routerCfg := httpserver.RouterConfig{
		Documents:   handlers.NewDocumentHandler(documentRepo, pageStore, ingestSvc, logger),
		Comparisons: handlers.NewComparisonHandler(compareSvc, logger),
		Conflicts:   handlers.NewConflictHandler(scanSvc, logger),
		Search:      handlers.NewSearchHandler(clauseIndex, logger),
		Health: handlers.NewHealthHandler(map[string]handlers.HealthChecker{
			"postgres":   pg.HealthCheck,
			"redis":      redisClient.HealthCheck,
			"milvus":     milvusClient.CheckHealth,
			"opensearch": osClient.HealthCheck,
			"minio":      minioClient.HealthCheck,
		}, metrics, logger),
		Collector: collector,
		Metrics:   metrics,
		RateLimit: middleware.DefaultRateLimitConfig(),
		Logger:    logger,
	}

	srv := httpserver.NewServer(cfg.Server, routerCfg, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := srv.Stop(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// loadConfig reads the config file when present, otherwise builds the
// configuration from LEXINTEL_* environment variables.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func segmenterConfig(cfg config.AnalysisConfig) segmenter.Config {
	out := segmenter.DefaultConfig()
	if cfg.MinDocumentLength > 0 {
		out.MinDocumentLength = cfg.MinDocumentLength
	}
	if cfg.ValidationFloor > 0 {
		out.ValidationFloor = cfg.ValidationFloor
	}
	return out
}

func engineOptions(cfg config.AnalysisConfig) diffengine.Options {
	out := diffengine.DefaultOptions()
	if cfg.UnchangedThreshold > 0 {
		out.UnchangedThreshold = cfg.UnchangedThreshold
	}
	if cfg.SameClauseFloor > 0 {
		out.SameClauseFloor = cfg.SameClauseFloor
	}
	return out
}
