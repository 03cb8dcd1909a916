// Package embedding calls the external embedding service that turns clause
// text into dense vectors for the conflict corpus.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// Service produces embeddings for clauses and ad-hoc query text.
type Service interface {
	EmbedClauses(ctx context.Context, clauses []*clause.Clause) ([]*clause.Embedding, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Client is an HTTP client for the embedding service.
type Client struct {
	cfg        config.EmbeddingConfig
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient constructs a Client from configuration.
func NewClient(cfg config.EmbeddingConfig, log logging.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.Named("embedding"),
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

// EmbedClauses embeds all clauses in batches and returns one Embedding per
// clause, in input order.  Every vector is checked against the configured
// dimension so a misconfigured model never reaches the corpus index.
func (c *Client) EmbedClauses(ctx context.Context, clauses []*clause.Clause) ([]*clause.Embedding, error) {
	if len(clauses) == 0 {
		return nil, nil
	}
	for i, cl := range clauses {
		if cl == nil {
			return nil, errors.IntegrityViolation("nil clause in embedding input").
				WithDetail(fmt.Sprintf("position %d", i))
		}
	}

	batchSize := c.cfg.MaxBatch
	if batchSize <= 0 {
		batchSize = len(clauses)
	}

	now := time.Now().UTC()
	out := make([]*clause.Embedding, 0, len(clauses))
	for start := 0; start < len(clauses); start += batchSize {
		end := start + batchSize
		if end > len(clauses) {
			end = len(clauses)
		}
		batch := clauses[start:end]

		texts := make([]string, len(batch))
		for i, cl := range batch {
			texts[i] = cl.Text
		}

		vectors, err := c.embedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		for i, cl := range batch {
			out = append(out, &clause.Embedding{
				ClauseID:  cl.ID,
				VersionID: cl.VersionID,
				Vector:    vectors[i],
				Dimension: len(vectors[i]),
				Model:     c.cfg.Model,
				CreatedAt: now,
			})
		}
	}

	c.logger.Debug("embedded clauses",
		logging.Int("count", len(out)),
		logging.String("model", c.cfg.Model))
	return out, nil
}

// EmbedQuery embeds a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.InvalidInput("query text is empty")
	}
	vectors, err := c.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embedBatch posts one batch and retries transient failures with exponential
// backoff.  Client errors from the service stop retrying immediately.
func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	op := func() error {
		vs, err := c.post(ctx, texts)
		if err != nil {
			return err
		}
		vectors = vs
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	if c.cfg.RetryBaseMS > 0 {
		bo.InitialInterval = c.cfg.RetryBaseMS
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.MaxRetries)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		if errors.GetCode(err) != errors.CodeUnknown {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "embedding service unreachable")
	}
	return vectors, nil
}

func (c *Client) post(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.cfg.Model, Input: texts})
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode embedding request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, errors.ErrCodeInternal, "failed to build embedding request"))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("embedding service returned %d", resp.StatusCode)
	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, backoff.Permanent(errors.Newf(errors.ErrCodeExternalService,
			"embedding service rejected request with %d", resp.StatusCode).
			WithDetail(string(data)))
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode embedding response"))
	}

	if len(parsed.Data) != len(texts) {
		return nil, backoff.Permanent(errors.IntegrityViolation("embedding count does not match input count").
			WithDetail(fmt.Sprintf("sent %d, got %d", len(texts), len(parsed.Data))))
	}

	sort.Slice(parsed.Data, func(i, j int) bool { return parsed.Data[i].Index < parsed.Data[j].Index })

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if c.cfg.Dimension > 0 && len(d.Embedding) != c.cfg.Dimension {
			return nil, backoff.Permanent(errors.IntegrityViolation("embedding dimension mismatch").
				WithDetail(fmt.Sprintf("expected %d, got %d", c.cfg.Dimension, len(d.Embedding))))
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
