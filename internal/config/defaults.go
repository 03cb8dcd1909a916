package config

import "time"

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "lexintel"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"
	DefaultCacheTTL  = 30 * time.Minute

	DefaultKafkaBroker = "localhost:9092"
	DefaultTopicPrefix = "lexintel"

	DefaultMilvusAddr       = "localhost:19530"
	DefaultMilvusCollection = "legal_clauses"
	DefaultEmbeddingDim     = 768

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "lexintel-pages"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Analysis defaults.  The thresholds mirror the calibration the diff
	// and conflict heuristics were tuned against.
	DefaultMinDocumentLength  = 200
	DefaultValidationFloor    = 50.0
	DefaultUnchangedThreshold = 0.95
	DefaultSameClauseFloor    = 0.30
	DefaultConflictThreshold  = 0.75
	DefaultConflictTopK       = 10
)

// ApplyDefaults fills every zero-value field in cfg with the project default.
// Fields already set by the caller are left unchanged so explicit
// configuration always wins.  Call after unmarshalling and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "file://migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultCacheTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "lexintel:"
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.TopicPrefix == "" {
		cfg.Kafka.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}

	if cfg.Milvus.Addr == "" {
		cfg.Milvus.Addr = DefaultMilvusAddr
	}
	if cfg.Milvus.Collection == "" {
		cfg.Milvus.Collection = DefaultMilvusCollection
	}
	if cfg.Milvus.EmbeddingDim == 0 {
		cfg.Milvus.EmbeddingDim = DefaultEmbeddingDim
	}
	if cfg.Milvus.IndexType == "" {
		cfg.Milvus.IndexType = "HNSW"
	}
	if cfg.Milvus.DefaultTopK == 0 {
		cfg.Milvus.DefaultTopK = DefaultConflictTopK
	}

	if cfg.OpenSearch.IndexPrefix == "" {
		cfg.OpenSearch.IndexPrefix = "lexintel"
	}
	if cfg.OpenSearch.BulkBatchSize == 0 {
		cfg.OpenSearch.BulkBatchSize = 500
	}

	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = DefaultEmbeddingDim
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 30 * time.Second
	}
	if cfg.Embedding.MaxBatch == 0 {
		cfg.Embedding.MaxBatch = 64
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = 3
	}
	if cfg.Embedding.RetryBaseMS == 0 {
		cfg.Embedding.RetryBaseMS = 500 * time.Millisecond
	}

	if cfg.Analysis.MinDocumentLength == 0 {
		cfg.Analysis.MinDocumentLength = DefaultMinDocumentLength
	}
	if cfg.Analysis.ValidationFloor == 0 {
		cfg.Analysis.ValidationFloor = DefaultValidationFloor
	}
	if cfg.Analysis.UnchangedThreshold == 0 {
		cfg.Analysis.UnchangedThreshold = DefaultUnchangedThreshold
	}
	if cfg.Analysis.SameClauseFloor == 0 {
		cfg.Analysis.SameClauseFloor = DefaultSameClauseFloor
	}
	if cfg.Analysis.ConflictThreshold == 0 {
		cfg.Analysis.ConflictThreshold = DefaultConflictThreshold
	}
	if cfg.Analysis.ConflictTopK == 0 {
		cfg.Analysis.ConflictTopK = DefaultConflictTopK
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
